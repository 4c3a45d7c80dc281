package notification

import (
	"fmt"

	"github.com/go-notify-links/internal/application/action"
	"github.com/go-notify-links/internal/application/channel"
	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/pkg/deeplink"
	"github.com/go-notify-links/internal/pkg/validate"
)

// Content link parameters appended to every content target unless the caller set them.
const (
	ParamSource       = "source"
	SourceCall        = "notification"
	SourceLocal       = "local_notification"
	CategoryCall      = "call"
	contentTitleParam = action.ParamTitle
)

// ChannelLookup resolves a channel id to its descriptor.
type ChannelLookup interface {
	Lookup(id string) (domain.ChannelDescriptor, error)
}

// Builder turns a request into a descriptor. It performs no I/O.
type Builder struct {
	channels   ChannelLookup
	actions    *action.Table
	codec      *deeplink.Codec
	homeScreen string
}

func NewBuilder(channels ChannelLookup, actions *action.Table, codec *deeplink.Codec, homeScreen string) *Builder {
	return &Builder{channels: channels, actions: actions, codec: codec, homeScreen: homeScreen}
}

// Build composes channel, content link and actions for req.
func (b *Builder) Build(req domain.NotificationRequest) (*domain.NotificationDescriptor, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}

	channelID := req.ChannelID
	if channelID == "" {
		channelID = channel.DefaultFor(req.Kind)
	}
	ch, err := b.channels.Lookup(channelID)
	if err != nil {
		return nil, err
	}

	isCall := req.Kind == domain.KindCall
	level := domain.LevelDefault
	if isCall || req.FullScreen {
		level = domain.LevelHigh
	}

	content := b.contentTarget(req)
	contentLink, err := b.codec.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("content target: %w", err)
	}

	actions := b.actions.For(req.Kind, req.Title)
	for i := range actions {
		link, err := b.codec.Encode(actions[i].Target)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", actions[i].ActionID, err)
		}
		actions[i].Link = link
	}

	d := &domain.NotificationDescriptor{
		Channel:           ch,
		Title:             req.Title,
		Body:              req.Body,
		InterruptionLevel: level,
		ContentTarget:     &content,
		ContentLink:       contentLink,
		Actions:           actions,
		FullScreen:        req.FullScreen || isCall,
	}
	if isCall {
		d.Category = CategoryCall
	}
	return d, nil
}

func (b *Builder) contentTarget(req domain.NotificationRequest) domain.DeepLinkTarget {
	var t domain.DeepLinkTarget
	if req.ContentTarget != nil {
		t = req.ContentTarget.Clone()
	} else {
		t = domain.DeepLinkTarget{Screen: b.homeScreen}
	}
	if !t.Has(ParamSource) {
		source := SourceLocal
		if req.Kind == domain.KindCall {
			source = SourceCall
		}
		t = t.With(ParamSource, source)
	}
	if !t.Has(contentTitleParam) {
		t = t.With(contentTitleParam, req.Title)
	}
	return t
}
