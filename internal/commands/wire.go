package commands

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-notify-links/internal/application/action"
	"github.com/go-notify-links/internal/application/channel"
	"github.com/go-notify-links/internal/application/notification"
	"github.com/go-notify-links/internal/application/route"
	"github.com/go-notify-links/internal/config"
	"github.com/go-notify-links/internal/domain"
	"github.com/go-notify-links/internal/infrastructure/channelfile"
	"github.com/go-notify-links/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-notify-links/internal/infrastructure/jwt"
	"github.com/go-notify-links/internal/infrastructure/logsurface"
	s3infra "github.com/go-notify-links/internal/infrastructure/s3"
	"github.com/go-notify-links/internal/infrastructure/sns"
	"github.com/go-notify-links/internal/infrastructure/unixsock"
	"github.com/go-notify-links/internal/infrastructure/wshub"
	"github.com/go-notify-links/internal/pkg/deeplink"
	transporthttp "github.com/go-notify-links/internal/transport/http"
	"github.com/rs/zerolog"
)

// stack is the fully wired engine behind notifyd serve.
type stack struct {
	Handler  http.Handler
	Service  notification.Service
	Registry *channel.Registry
	Router   *route.Router
	Hub      *wshub.Hub

	// Close releases background work started by the HTTP shell.
	Close func()
}

func codecFor(cfg *config.Config) *deeplink.Codec {
	return deeplink.New(cfg.LinkScheme, cfg.LinkHost)
}

// buildStack wires registry, dispatcher, router and HTTP shell from cfg.
func buildStack(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stack, error) {
	registry, err := loadChannels(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	surface, hub, err := newSurface(cfg, log)
	if err != nil {
		return nil, err
	}

	var dispatchOpts []notification.DispatcherOption
	if cfg.IDLimit > 0 {
		dispatchOpts = append(dispatchOpts, notification.WithIDLimit(cfg.IDLimit))
	}
	codec := codecFor(cfg)
	svc := notification.NewService(notification.ServiceDeps{
		Builder: notification.NewBuilder(
			registry,
			action.NewTable(cfg.CallScreen, cfg.HomeScreen),
			codec,
			cfg.HomeScreen,
		),
		Dispatcher:      notification.NewDispatcher(surface, log, dispatchOpts...),
		Log:             log,
		FallbackChannel: cfg.FallbackToDefaultChannel,
	})

	var routeOpts []route.Option
	if cfg.ActionTopicARN != "" {
		client, err := sns.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		routeOpts = append(routeOpts, route.WithPublisher(sns.NewPublisher(client, cfg.ActionTopicARN)))
	}
	router := route.NewRouter(codec, log, routeOpts...)
	navLog := log.With().Str("component", "navigation").Logger()
	router.Subscribe(func(_ context.Context, actionID string, t domain.DeepLinkTarget) {
		navLog.Info().Str("action", actionID).Str("screen", t.Screen).Interface("params", t.Values()).Msg("navigate")
	})

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		if cfg.AppEnv != "development" {
			return nil, fmt.Errorf("jwt provider: %w", err)
		}
		log.Warn().Err(err).Msg("JWT provider not available, auth disabled")
		jwtProvider = nil
	}

	deps := &transporthttp.Deps{
		Notifications: svc,
		Channels:      registry,
		Actions:       router,
		JWTProvider:   jwtProvider,
		Log:           log,
	}
	if hub != nil {
		hub.OnClientMessage(clientHandler(router, svc, log))
		deps.Hub = hub
	}

	handler, closeHTTP := transporthttp.NewRouter(cfg, deps)
	return &stack{
		Handler:  handler,
		Service:  svc,
		Registry: registry,
		Router:   router,
		Hub:      hub,
		Close:    closeHTTP,
	}, nil
}

// clientHandler routes reports from websocket clients.
func clientHandler(router *route.Router, svc notification.Service, log zerolog.Logger) wshub.ClientHandler {
	return func(ctx context.Context, msg domain.ClientMessage) {
		switch msg.Op {
		case domain.ClientAction:
			_, _ = router.Trigger(ctx, msg.ActionID, msg.Link, msg.NotificationID)
		case domain.ClientDismissed:
			svc.Dismissed(msg.NotificationID)
		default:
			log.Warn().Str("op", string(msg.Op)).Msg("unknown client op")
		}
	}
}

// newSurface picks the notification surface named by cfg.Surface. The hub is
// non-nil only for the websocket surface.
func newSurface(cfg *config.Config, log zerolog.Logger) (notification.Surface, *wshub.Hub, error) {
	switch cfg.Surface {
	case config.SurfaceLog:
		return logsurface.New(log), nil, nil
	case config.SurfaceSocket:
		return unixsock.New(cfg.NotifySocketPath, cfg.NotifySocketTimeout, log), nil, nil
	case config.SurfaceWebsocket:
		hub := wshub.New(log, originChecker(cfg.AllowedOrigins))
		return hub, hub, nil
	default:
		return nil, nil, fmt.Errorf("unknown surface %q", cfg.Surface)
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// loadChannels builds the registry: built-ins, then the channel file, then
// the DynamoDB catalog. A conflict between any two aborts startup.
func loadChannels(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*channel.Registry, error) {
	registry := channel.NewDefaultRegistry(log)

	var sources []channel.Source
	if cfg.ChannelsSource != "" {
		src, err := channelSource(ctx, cfg, cfg.ChannelsSource)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if cfg.ChannelCatalog {
		repo, err := channelCatalog(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		sources = append(sources, repo)
	}
	if err := registry.Load(ctx, sources...); err != nil {
		return nil, err
	}
	return registry, nil
}

// channelSource reads location from disk, or from S3 for s3:// uris.
func channelSource(ctx context.Context, cfg *config.Config, location string) (*channelfile.Source, error) {
	if !s3infra.IsURI(location) {
		return channelfile.NewLocal(location), nil
	}
	client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return channelfile.NewRemote(location, s3infra.NewStore(client)), nil
}

func channelCatalog(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dynamo.ChannelRepo, error) {
	client, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := dynamo.Bootstrap(ctx, client, cfg.DynamoTables, log); err != nil {
		return nil, err
	}
	return dynamo.NewChannelRepo(client, cfg.DynamoTables.Channels), nil
}
