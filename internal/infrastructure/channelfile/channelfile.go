// Package channelfile reads channel descriptors from YAML:
//
//	channels:
//	  - id: promo
//	    name: Promotions
//	    interruption_level: default
//	    light_color: "#00FF00"
//	    enable_vibration: true
//	    vibration_ms: [0, 250, 250, 250]
package channelfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-notify-links/internal/domain"
	"gopkg.in/yaml.v3"
)

type file struct {
	Channels []entry `yaml:"channels"`
}

type entry struct {
	domain.ChannelDescriptor `yaml:",inline"`
	VibrationMs              []int64 `yaml:"vibration_ms"`
}

// Parse decodes a channel file. Unknown keys are rejected. Descriptors are
// not validated here; the registry does that on registration.
func Parse(data []byte) ([]domain.ChannelDescriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode channel file: %w: %w", err, domain.ErrBadRequest)
	}
	out := make([]domain.ChannelDescriptor, 0, len(f.Channels))
	for _, e := range f.Channels {
		d := e.ChannelDescriptor
		if len(e.VibrationMs) > 0 {
			d.VibrationPattern = make([]time.Duration, len(e.VibrationMs))
			for i, ms := range e.VibrationMs {
				d.VibrationPattern[i] = time.Duration(ms) * time.Millisecond
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Fetcher reads a remote object by uri.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Source loads a channel file from local disk, or through a Fetcher for
// remote uris.
type Source struct {
	location string
	fetcher  Fetcher
}

// NewLocal returns a source for a file on disk.
func NewLocal(path string) *Source { return &Source{location: path} }

// NewRemote returns a source that reads uri through f.
func NewRemote(uri string, f Fetcher) *Source { return &Source{location: uri, fetcher: f} }

func (s *Source) Name() string { return s.location }

func (s *Source) Channels(ctx context.Context) ([]domain.ChannelDescriptor, error) {
	var (
		data []byte
		err  error
	)
	if s.fetcher != nil {
		data, err = s.fetcher.Fetch(ctx, s.location)
	} else {
		data, err = os.ReadFile(s.location)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
