// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient sorts exchange errors into coarse categories. The
// classifier relies on it to tell timing failures apart from
// everything else, and the categories make convenient metric labels.
package transient
