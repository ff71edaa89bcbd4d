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
	"fmt"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

// Sentinel errors for use with errors.Is. Both are raised before any network
// I/O happens.
var (
	// ErrNoDomain reports an email address without a usable domain part.
	ErrNoDomain = errors.New("davdisco: email address has no domain part")
	// ErrNoServiceRequested reports that both the CalDAV and the CardDAV
	// checks resolved to false; at least one service must be requested.
	ErrNoServiceRequested = errors.New("davdisco: at least one of CalDAV or CardDAV must be requested")
)

// DispatchError reports that the resolver failed to send a query. It aborts
// the whole discovery call: no partial result is returned even if other
// queries of the same call were sent successfully.
type DispatchError struct {
	Owner string // owner name of the failed query
	Qtype uint16 // dns.TypeSRV or dns.TypeTXT
	Err   error  // resolver send error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("davdisco: dispatching %s query for %q: %v", dns.TypeToString[e.Qtype], e.Owner, e.Err)
}

// Unwrap returns the underlying resolver error.
func (e *DispatchError) Unwrap() error { return e.Err }

// IsDispatchError reports whether err wraps a DispatchError.
func IsDispatchError(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}
