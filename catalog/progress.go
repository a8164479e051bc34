// Copyright 2025 Poiesic Systems
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

package catalog

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress prints install progress as each kind of record is written.
// A nil *Progress is valid and prints nothing.
type Progress struct {
	writer    io.Writer
	steps     int
	done      int
	records   int
	startTime time.Time
	mu        sync.Mutex
}

// NewProgress creates a tracker for an install of the given number of steps.
func NewProgress(writer io.Writer, steps int) *Progress {
	return &Progress{writer: writer, steps: steps}
}

func (p *Progress) start() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startTime = time.Now()
	p.done = 0
	p.records = 0
}

// step records a finished write of n records of the named kind.
func (p *Progress) step(name string, n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done < p.steps {
		p.done++
	}
	p.records += n
	fmt.Fprintf(p.writer, "\rInstalling: %d/%d (%.1f%%) %-20s", p.done, p.steps, p.percent(), name)
}

func (p *Progress) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)
	fmt.Fprintf(p.writer, "\rInstalled %d records in %s%-20s\n", p.records, elapsed.Round(time.Millisecond), "")
}

// Records returns the number of records written so far.
func (p *Progress) Records() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.records
}

// percent must be called with the lock held.
func (p *Progress) percent() float64 {
	if p.steps == 0 {
		return 100
	}
	return float64(p.done) / float64(p.steps) * 100.0
}
