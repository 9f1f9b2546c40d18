// Copyright 2024 The Armored Witness OS authors. All Rights Reserved.
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

package fee

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// instrumented wraps a Device counting jobs by operation, block and result.
type instrumented struct {
	Device

	jobs  *prometheus.CounterVec
	polls prometheus.Counter
}

// Instrument returns a Device which records job outcomes in metrics registered
// with reg.
func Instrument(dev Device, reg prometheus.Registerer) (Device, error) {
	i := &instrumented{
		Device: dev,
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fee_jobs_total",
			Help: "Number of FEE jobs by operation, block and result.",
		}, []string{"op", "block", "result"}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fee_status_polls_total",
			Help: "Number of FEE status polls.",
		}),
	}

	for _, c := range []prometheus.Collector{i.jobs, i.polls} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return i, nil
}

func (i *instrumented) Status() Status {
	i.polls.Inc()
	return i.Device.Status()
}

func (i *instrumented) ReadSync(block uint16, offset uint16, buf []byte) {
	i.Device.ReadSync(block, offset, buf)
	i.count("read", block)
}

func (i *instrumented) WriteSync(block uint16, buf []byte) {
	i.Device.WriteSync(block, buf)
	i.count("write", block)
}

func (i *instrumented) count(op string, block uint16) {
	i.jobs.WithLabelValues(op, strconv.Itoa(int(block)), i.Device.JobResult().String()).Inc()
}
