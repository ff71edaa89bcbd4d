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
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func TestTransportDialUDP(t *testing.T) {
	s := newServer(t, UDP, exampleNetHandler)
	defer s.close()

	tr := NewTransport(s.addr)
	defer tr.Close()

	conn, err := tr.Dial(context.Background(), UDP)
	require.NoError(t, err)
	require.NotNil(t, conn)
	_ = conn.Close()
}

func TestTransportPoolsTCPConns(t *testing.T) {
	s := newServer(t, TCP, exampleNetHandler)
	defer s.close()

	tr := NewTransport(s.addr)
	defer tr.Close()

	conn, err := tr.Dial(context.Background(), TCP)
	require.NoError(t, err)
	tr.Yield(conn)

	conn2, err := tr.Dial(context.Background(), TCP)
	require.NoError(t, err)
	require.Same(t, conn, conn2)
	tr.Yield(conn2)
}

// TestTransportPoolBounded verifies yields beyond the pool capacity close
// the connection instead of leaking it.
func TestTransportPoolBounded(t *testing.T) {
	s := newServer(t, TCP, exampleNetHandler)
	defer s.close()

	tr := NewTransport(s.addr)
	defer tr.Close()

	conns := make([]*dns.Conn, 0, connPoolSize+1)
	for range connPoolSize + 1 {
		conn, err := tr.Dial(context.Background(), TCP)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	for _, conn := range conns {
		tr.Yield(conn)
	}

	// The overflow connection was closed on yield; a write must fail.
	err := conns[len(conns)-1].WriteMsg(new(dns.Msg).SetQuestion("example.net.", dns.TypeSRV))
	require.Error(t, err)
}

func TestTransportDialFailure(t *testing.T) {
	tr := NewTransport("127.0.0.1:1")
	defer tr.Close()

	_, err := tr.Dial(context.Background(), TCP)
	require.Error(t, err)
}
