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
	"strconv"
	"strings"
)

// buildURL synthesizes the endpoint URL for a winning selection. It cannot
// fail: a missing TXT record or path attribute falls back to the well-known
// context path.
func buildURL(svc Service, sel selection) string {
	secure := secureOwnerName(sel.owner)
	scheme := "http"
	if secure {
		scheme = "https"
	}
	host := strings.TrimSuffix(sel.srv.Target, ".")
	port := ""
	suppress := (secure && sel.srv.Port == wellKnownHTTPSPort) ||
		(!secure && sel.srv.Port == wellKnownHTTPPort)
	if !suppress {
		port = ":" + strconv.Itoa(int(sel.srv.Port))
	}
	return scheme + "://" + host + port + contextPath(svc, sel.txt)
}

// secureOwnerName reports whether owner names the TLS variant of a service:
// the service label immediately before the "._tcp." boundary ends in "s"
// (_caldavs, _carddavs).
func secureOwnerName(owner string) bool {
	label, _, ok := strings.Cut(owner, "._tcp.")
	return ok && strings.HasSuffix(label, "s")
}

// contextPath extracts the path override from the first TXT string starting
// with "path=" (case-insensitive), guaranteeing a leading slash. Without a
// TXT record or a path attribute it returns the RFC 6764 well-known path.
func contextPath(svc Service, txt *TXTRecord) string {
	const prefix = "path="
	if txt != nil {
		for _, attr := range txt.Text {
			if len(attr) < len(prefix) || !strings.EqualFold(attr[:len(prefix)], prefix) {
				continue
			}
			path := attr[len(prefix):]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			return path
		}
	}
	return svc.wellKnownPath()
}
