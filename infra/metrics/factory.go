package metrics

import (
	"github.com/procsim/flowsim/core/factory"
	coremetrics "github.com/procsim/flowsim/core/metrics"
)

// init registers the built-in recorder sinks.
func init() {
	_ = coremetrics.RegisterRecorder("nop", func(map[string]any) (coremetrics.Recorder, error) {
		return coremetrics.NopRecorder{}, nil
	})

	_ = coremetrics.RegisterRecorder("prometheus", func(map[string]any) (coremetrics.Recorder, error) {
		return NewPromRecorder()
	})

	_ = coremetrics.RegisterRecorder("influx", func(conf map[string]any) (coremetrics.Recorder, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxRecorderWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
