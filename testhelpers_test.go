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
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves canned answer records keyed by (owner, qtype) and
// remembers every query it was asked to send.
type fakeResolver struct {
	answers map[query][]Record
	// sendErrAfter, when >= 0, fails the send whose index equals it.
	sendErrAfter int
	sendErr      error
	// stuck marks owners whose queries never become ready.
	stuck map[string]bool
	sent  []query
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		answers:      make(map[query][]Record),
		sendErrAfter: -1,
		stuck:        make(map[string]bool),
	}
}

// addSRV registers an SRV answer for the SRV query of owner.
func (f *fakeResolver) addSRV(owner string, priority, weight uint16, target string, port uint16) {
	q := query{owner: normalizeOwner(owner), qtype: dns.TypeSRV}
	f.answers[q] = append(f.answers[q], &SRVRecord{
		Name:     owner,
		Priority: priority,
		Weight:   weight,
		Target:   target,
		Port:     port,
	})
}

// addTXT registers a TXT answer for the TXT query of owner.
func (f *fakeResolver) addTXT(owner string, text ...string) {
	q := query{owner: normalizeOwner(owner), qtype: dns.TypeTXT}
	f.answers[q] = append(f.answers[q], &TXTRecord{Name: owner, Text: text})
}

func (f *fakeResolver) SendQuery(owner string, qtype uint16) (Pending, error) {
	if f.sendErrAfter >= 0 && len(f.sent) == f.sendErrAfter {
		return nil, f.sendErr
	}
	q := query{owner: owner, qtype: qtype}
	f.sent = append(f.sent, q)
	if f.stuck[owner] {
		return stuckPending{}, nil
	}
	return ResolvedAnswer(f.answers[query{owner: normalizeOwner(owner), qtype: qtype}]...), nil
}

// stuckPending is an in-flight query that never completes.
type stuckPending struct{}

func (stuckPending) Ready() bool      { return false }
func (stuckPending) Answer() []Record { return nil }

// newDiscoverer builds a Discoverer over the fake resolver with timings
// suited for tests.
func newDiscoverer(t *testing.T, r Resolver, opts ...Option) *Discoverer {
	t.Helper()
	opts = append([]Option{
		WithResolver(r),
		WithTimeout(minTimeout),
		WithPollInterval(time.Millisecond),
	}, opts...)
	d, err := New(opts...)
	require.NoError(t, err)
	return d
}

// server wraps a dns.Server listening on a loopback port.
type server struct {
	inner *dns.Server
	addr  string
}

func (s *server) close() {
	_ = s.inner.Shutdown()
}

// newServer starts a DNS server for the given network ("udp" or "tcp") on an
// ephemeral loopback port and returns it once it accepts queries.
func newServer(t *testing.T, network string, f dns.HandlerFunc) *server {
	t.Helper()
	started := make(chan struct{})
	s := &dns.Server{
		Addr:              "127.0.0.1:0",
		Net:               network,
		Handler:           f,
		NotifyStartedFunc: func() { close(started) },
	}
	go func() {
		_ = s.ListenAndServe()
	}()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for test DNS server to start")
	}

	addr := ""
	if s.PacketConn != nil {
		addr = s.PacketConn.LocalAddr().String()
	} else if s.Listener != nil {
		addr = s.Listener.Addr().String()
	}
	require.NotEmpty(t, addr)
	return &server{inner: s, addr: addr}
}

// makeRR parses a record in zone-file syntax.
func makeRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	require.NoError(t, err)
	return rr
}
