// Copyright 2026 The peekx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package peekx

import (
	"github.com/gogama/peekx/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do issues a plan, classifies its timeouts and reads its body,
// returning the final execution state. Client implements Doer, and any
// other implementation must behave substantially the same as Client.Do.
type Doer interface {
	Do(p *request.Plan) (*request.Execution, error)
}

// Getter is the interface that wraps the basic Get method.
type Getter interface {
	Get(url string) (*request.Execution, error)
}

// Poster is the interface that wraps the basic Post method.
type Poster interface {
	Post(url, contentType string, body interface{}) (*request.Execution, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method. It closes idle keep-alive connections, if the underlying
// implementation keeps any, without interrupting connections in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// Get uses d to issue a GET to the specified URL.
func Get(d Doer, url string) (*request.Execution, error) {
	p, err := request.NewPlan("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(p)
}

// Head uses d to issue a HEAD to the specified URL.
func Head(d Doer, url string) (*request.Execution, error) {
	p, err := request.NewPlan("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(p)
}

// Post uses d to issue a POST to the specified URL with the given
// content type and body.
func Post(d Doer, url, contentType string, body interface{}) (*request.Execution, error) {
	p, err := request.NewPlan("POST", url, body)
	if err != nil {
		return nil, err
	}
	p.Header.Set("Content-Type", contentType)
	return d.Do(p)
}
