// Package unixsock posts notifications to a local notification daemon over a
// Unix domain socket. Every call opens one connection and sends one frame:
// a 4-byte little-endian length followed by a JSON SurfaceEnvelope. The
// daemon answers with a frame of the same shape holding a JSON object; a
// non-empty "error" field fails the call.
package unixsock

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-notify-links/internal/domain"
	"github.com/rs/zerolog"
)

// MaxFrameSize is the largest payload accepted in either direction.
const MaxFrameSize = 32 * 1024

// ErrFrameTooLarge is returned for payloads over MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds 32KB")

type reply struct {
	Error string `json:"error"`
}

// Surface implements the dispatcher surface over a Unix socket.
type Surface struct {
	path    string
	timeout time.Duration
	log     zerolog.Logger
}

func New(path string, timeout time.Duration, log zerolog.Logger) *Surface {
	return &Surface{
		path:    path,
		timeout: timeout,
		log:     log.With().Str("component", "unixsock").Str("socket", path).Logger(),
	}
}

func (s *Surface) Post(ctx context.Context, d *domain.NotificationDescriptor) error {
	return s.send(ctx, domain.SurfaceEnvelope{Op: domain.OpPost, ID: d.ID, Notification: d})
}

func (s *Surface) Cancel(ctx context.Context, id domain.NotificationID) error {
	return s.send(ctx, domain.SurfaceEnvelope{Op: domain.OpCancel, ID: id})
}

func (s *Surface) CancelAll(ctx context.Context) error {
	return s.send(ctx, domain.SurfaceEnvelope{Op: domain.OpCancelAll})
}

func (s *Surface) send(ctx context.Context, env domain.SurfaceEnvelope) error {
	payload, err := sonic.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.Op, err)
	}
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%s payload of %d bytes: %w", env.Op, len(payload), ErrFrameTooLarge)
	}

	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "unix", s.path)
	if err != nil {
		return fmt.Errorf("connect %s: %w", s.path, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.Debug().Err(err).Msg("close socket")
		}
	}()

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	if err := WriteFrame(conn, payload); err != nil {
		return err
	}
	resp, err := ReadFrame(conn)
	if err != nil {
		return err
	}
	var r reply
	if err := sonic.Unmarshal(resp, &r); err != nil {
		return fmt.Errorf("decode daemon reply: %w", err)
	}
	if r.Error != "" {
		return fmt.Errorf("daemon rejected %s: %s", env.Op, r.Error)
	}
	s.log.Debug().Str("op", string(env.Op)).Int64("id", int64(env.ID)).Int("bytes", len(payload)).Msg("frame delivered")
	return nil
}

// WriteFrame writes a length-prefixed frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return buf, nil
}
