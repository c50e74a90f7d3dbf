// Copyright 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package conn exposes one modem link as an io.ReadWriteCloser.
//
// A Conn never violates the driver contract on its own: it checks adapter,
// network and link state before each driver call and reports a sentinel
// error instead. An endpoint that differs from the one the modem expects is
// still reported by the driver itself; Dial releases its task before such a
// violation propagates.
package conn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	wifi "github.com/ZaparooProject/go-wifi"
	"github.com/ZaparooProject/go-wifi/internal/syncutil"
	"github.com/ZaparooProject/go-wifi/receiver"
	"github.com/ZaparooProject/go-wifi/task"
)

// DefaultReadTimeout bounds how long Read waits for data.
const DefaultReadTimeout = 5 * time.Second

var (
	// ErrNotJoined is returned by Dial when the adapter is down or no
	// network is joined.
	ErrNotJoined = errors.New("network not joined")

	// ErrInvalidLink is returned by Dial for a link outside the receiver or
	// driver range.
	ErrInvalidLink = errors.New("invalid link")

	// ErrLinkInUse is returned by Dial when the link is already connected.
	ErrLinkInUse = errors.New("link already connected")

	// ErrConnectRejected is returned by Dial when the driver refused the
	// connect, typically because no endpoint is configured for the link.
	ErrConnectRejected = errors.New("server connect rejected")

	// ErrNotConnected is returned by Write once the link has dropped.
	ErrNotConnected = errors.New("link not connected")

	// ErrTransmitRejected is returned by Write when the driver did not
	// accept a chunk.
	ErrTransmitRejected = errors.New("transmit rejected")

	// ErrReadTimeout is returned by Read when no data arrived in time.
	ErrReadTimeout = errors.New("read timeout")

	// ErrClosed is returned by operations on a closed Conn.
	ErrClosed = errors.New("connection closed")
)

// linkCounter is implemented by drivers that expose their number of link
// slots, such as *sim.Adapter.
type linkCounter interface {
	LinkCount() int
}

// Conn is a connected link. Reads are served from the receiver buffer of
// the link; writes are split into transmits of at most
// wifi.MaxTransmitSize bytes.
type Conn struct {
	driver   wifi.Driver
	rcv      *receiver.Receiver
	registry *task.Registry
	host     string
	service  string
	timeout  time.Duration
	link     wifi.LinkID
	id       task.ID
	mu       syncutil.Mutex
	closed   bool
}

var _ io.ReadWriteCloser = (*Conn)(nil)

// Option configures a Conn.
type Option func(*Conn)

// WithReadTimeout sets the read timeout. Zero or negative waits forever.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Conn) {
		c.timeout = d
	}
}

// Dial connects link to host:service. The receiver must be the receive
// handler of driver.
func Dial(
	driver wifi.Driver, rcv *receiver.Receiver, registry *task.Registry,
	link wifi.LinkID, host, service string, opts ...Option,
) (*Conn, error) {
	if !link.Valid(rcv.Links()) {
		return nil, fmt.Errorf("dial link %d: %w", link, ErrInvalidLink)
	}
	if lc, ok := driver.(linkCounter); ok && !link.Valid(lc.LinkCount()) {
		return nil, fmt.Errorf("dial link %d: %w", link, ErrInvalidLink)
	}
	if !driver.IsInit() || !driver.IsNetworkConnected() {
		return nil, fmt.Errorf("dial link %d: %w", link, ErrNotJoined)
	}
	if driver.IsServerConnected(link) {
		return nil, fmt.Errorf("dial link %d: %w", link, ErrLinkInUse)
	}

	c := &Conn{
		driver:   driver,
		rcv:      rcv,
		registry: registry,
		link:     link,
		host:     host,
		service:  service,
		timeout:  DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	prev, hadPrev := rcv.Attached(link)
	c.id = registry.Register()
	rcv.Attach(link, c.id)
	connected := false
	defer func() {
		if connected {
			return
		}
		// runs on a false return and while a contract violation unwinds
		if hadPrev {
			rcv.Attach(link, prev)
		} else {
			rcv.Detach(link)
		}
		registry.Unregister(c.id)
	}()

	if !driver.ServerConnect(link, host, service) {
		return nil, fmt.Errorf("dial %s:%s on link %d: %w", host, service, link, ErrConnectRejected)
	}
	connected = true

	wifi.Debugf("conn: link %d dialed %s:%s", link, host, service)
	return c, nil
}

// Link returns the link the connection uses.
func (c *Conn) Link() wifi.LinkID {
	return c.link
}

// RemoteAddr returns the host and service the link was dialed to.
func (c *Conn) RemoteAddr() string {
	return c.host + ":" + c.service
}

// SetReadTimeout changes the read timeout for subsequent reads.
func (c *Conn) SetReadTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// Write transmits p in chunks. On a rejected transmit it returns the number
// of bytes accepted so far and ErrTransmitRejected.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}

	written := 0
	for written < len(p) {
		if !c.driver.IsServerConnected(c.link) {
			return written, fmt.Errorf("write link %d: %w", c.link, ErrNotConnected)
		}
		end := min(written+wifi.MaxTransmitSize, len(p))
		if !c.driver.Transmit(c.link, p[written:end]) {
			return written, fmt.Errorf("write link %d after %d bytes: %w", c.link, written, ErrTransmitRejected)
		}
		written = end
	}
	return written, nil
}

// Read waits for received bytes using the configured timeout.
func (c *Conn) Read(p []byte) (int, error) {
	c.mu.Lock()
	timeout := c.timeout
	c.mu.Unlock()

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.ReadContext(ctx, p)
}

// ReadContext waits for received bytes until ctx is done. Bytes already
// buffered are returned even after the link dropped; once the buffer is
// empty a dropped link reads as io.EOF.
func (c *Conn) ReadContext(ctx context.Context, p []byte) (int, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if n := c.rcv.Read(c.link, p); n > 0 {
			return n, nil
		}
		if !c.driver.IsServerConnected(c.link) {
			return 0, io.EOF
		}
		if err := c.registry.Take(ctx, c.id); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return 0, fmt.Errorf("read link %d: %w", c.link, ErrReadTimeout)
			}
			return 0, fmt.Errorf("read link %d: %w", c.link, err)
		}
	}
}

// Close disconnects the link if it is still connected and releases the
// attached task.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	c.mu.Unlock()

	if c.driver.IsServerConnected(c.link) {
		c.driver.ServerDisconnect(c.link)
	}
	c.rcv.Detach(c.link)
	c.registry.Unregister(c.id)
	wifi.Debugf("conn: link %d closed", c.link)
	return nil
}

func (c *Conn) usable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}
