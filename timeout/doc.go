// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for choosing the connect bound and
// the max duration bound of an exchange. A plan's own bounds, when set,
// take precedence over the policy.
package timeout
