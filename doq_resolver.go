// Copyright (c) 2026 the davdisco authors.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package davdisco

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
)

// doqALPN is the ALPN token for DNS over QUIC as specified in RFC 9250 §7.2.
const doqALPN = "doq"

// doqMaxMessageSize is the maximum DNS message payload allowed over DoQ
// (64 KiB).
const doqMaxMessageSize = 64 * 1024

// doqNoError is the DoQ error code for a clean close (RFC 9250 §8.4).
const doqNoError quic.ApplicationErrorCode = 0x0

// doqInternalError is the DoQ error code for internal errors (RFC 9250 §8.4).
const doqInternalError quic.ApplicationErrorCode = 0x1

// DoQResolver issues queries over DNS-over-QUIC (RFC 9250): one QUIC stream
// per query on a persistent connection, TLS 1.3 throughout.
type DoQResolver struct {
	addr      string     // host:port of the DoQ server
	mu        sync.Mutex // protects conn
	conn      *quic.Conn
	tlsConfig *tls.Config
}

// NewDoQResolver creates a DoQ resolver for the server at addr (host:port,
// e.g. "dns.example.com:853").
func NewDoQResolver(addr string) *DoQResolver {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS13,
		NextProtos: []string{doqALPN},
	}
	return &DoQResolver{
		addr:      addr,
		tlsConfig: tlsConfig,
	}
}

// Net returns the network type of the resolver.
func (r *DoQResolver) Net() string {
	return DOQ
}

// Endpoint returns the server address in host:port format.
func (r *DoQResolver) Endpoint() string {
	return r.addr
}

// Close closes the QUIC connection gracefully.
func (r *DoQResolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		_ = r.conn.CloseWithError(doqNoError, "resolver shutdown")
		r.conn = nil
	}
	return nil
}

// SendQuery issues one query over a dedicated QUIC stream and returns its
// in-flight handle.
func (r *DoQResolver) SendQuery(owner string, qtype uint16) (Pending, error) {
	if _, ok := dns.IsDomainName(owner); !ok {
		return nil, errors.Errorf("invalid owner name %q", owner)
	}
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(owner), qtype)

	p := newPending()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout+readTimeout)
		defer cancel()
		msg, err := r.request(ctx, req)
		p.complete(recordsFromMsg(msg), err)
	}()
	return p, nil
}

// request opens a stream on the shared connection (reconnecting once if the
// connection went away) and runs one query-response cycle on it.
func (r *DoQResolver) request(ctx context.Context, req *dns.Msg) (*dns.Msg, error) {
	conn, err := r.getOrDialConn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "DoQ: failed to establish QUIC connection")
	}

	// RFC 9250 §4.2: each DNS query-response pair uses a single stream.
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		r.resetConn()
		conn, err = r.getOrDialConn(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "DoQ: failed to re-establish QUIC connection")
		}
		stream, err = conn.OpenStreamSync(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "DoQ: failed to open QUIC stream")
		}
	}

	return r.exchangeOnStream(stream, req)
}

// exchangeOnStream writes a DNS query to a QUIC stream and reads the
// response.
func (r *DoQResolver) exchangeOnStream(stream *quic.Stream, req *dns.Msg) (*dns.Msg, error) {
	defer stream.Close() //nolint:errcheck // best-effort close

	origID := req.Id
	if err := writeDoQQuery(stream, req); err != nil {
		return nil, err
	}
	return readDoQResponse(stream, origID)
}

// writeDoQQuery packs and writes a DNS query with the RFC 9250 §4.2 2-byte
// length prefix and a zeroed message ID, then closes the sending half of the
// stream (FIN).
func writeDoQQuery(stream *quic.Stream, req *dns.Msg) error {
	if err := stream.SetWriteDeadline(time.Now().Add(dialTimeout)); err != nil {
		return errors.Wrap(err, "DoQ: failed to set write deadline")
	}

	req.Id = 0
	packed, err := req.Pack()
	if err != nil {
		return errors.Wrap(err, "DoQ: failed to pack DNS request")
	}
	if len(packed) > math.MaxUint16 {
		return errors.Errorf("DoQ: packed DNS message too large (%d bytes)", len(packed))
	}

	buf := make([]byte, 2+len(packed))
	binary.BigEndian.PutUint16(buf[:2], uint16(len(packed))) //nolint:gosec // bound checked above
	copy(buf[2:], packed)

	if _, err = stream.Write(buf); err != nil {
		return errors.Wrap(err, "DoQ: failed to write DNS query to stream")
	}
	if err = stream.Close(); err != nil {
		return errors.Wrap(err, "DoQ: failed to close write half of stream")
	}
	return nil
}

// readDoQResponse reads a length-prefixed DNS response from the stream. The
// message ID is 0 on the wire (RFC 9250 §4.2); the original ID is restored.
func readDoQResponse(stream *quic.Stream, origID uint16) (*dns.Msg, error) {
	if err := stream.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return nil, errors.Wrap(err, "DoQ: failed to set read deadline")
	}

	var lenBuf [2]byte
	if _, err := io.ReadFull(stream, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "DoQ: failed to read response length prefix")
	}
	respLen := binary.BigEndian.Uint16(lenBuf[:])
	if respLen == 0 || int(respLen) > doqMaxMessageSize {
		return nil, errors.Errorf("DoQ: invalid response length %d", respLen)
	}

	respBuf := make([]byte, respLen)
	if _, err := io.ReadFull(stream, respBuf); err != nil {
		return nil, errors.Wrap(err, "DoQ: failed to read DNS response")
	}

	ret := new(dns.Msg)
	if err := ret.Unpack(respBuf); err != nil {
		return nil, errors.Wrap(err, "DoQ: failed to unpack DNS response")
	}
	ret.Id = origID
	return ret, nil
}

// getOrDialConn returns the cached QUIC connection or dials a new one.
func (r *DoQResolver) getOrDialConn(ctx context.Context) (*quic.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		select {
		case <-r.conn.Context().Done():
			// Connection was closed, need to reconnect.
			r.conn = nil
		default:
			return r.conn, nil
		}
	}

	conn, err := quic.DialAddr(ctx, r.addr, r.tlsConfig.Clone(), &quic.Config{
		MaxIdleTimeout:  30 * time.Second,
		KeepAlivePeriod: 15 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	r.conn = conn
	return conn, nil
}

// resetConn closes the current connection so the next getOrDialConn dials a
// fresh one.
func (r *DoQResolver) resetConn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		_ = r.conn.CloseWithError(doqInternalError, "connection reset")
		r.conn = nil
	}
}
