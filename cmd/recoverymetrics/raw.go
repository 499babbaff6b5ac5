// Raw metric dumps printed ahead of the report with --raw
// Shows one sampled master and backup, or every server with --all
package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"gopkg.in/yaml.v3"
)

// rawSample is the --raw view: enough raw metrics to sanity check a run
// without dumping every server.
type rawSample struct {
	Client       metrics.Record  `yaml:"client"`
	Coordinator  *metrics.Server `yaml:"coordinator,omitempty"`
	SampleMaster *metrics.Server `yaml:"sample_master,omitempty"`
	SampleBackup *metrics.Server `yaml:"sample_backup,omitempty"`
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sampling, not security
	}
	return rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // sampling, not security
}

func pick(rng *rand.Rand, servers []*metrics.Server) *metrics.Server {
	if len(servers) == 0 {
		return nil
	}
	return servers[rng.IntN(len(servers))]
}

func dumpSample(w io.Writer, ds *metrics.Dataset, rng *rand.Rand) error {
	return dumpYAML(w, rawSample{
		Client:       ds.Client,
		Coordinator:  ds.Coordinator,
		SampleMaster: pick(rng, ds.Masters),
		SampleBackup: pick(rng, ds.Backups),
	})
}

func dumpAll(w io.Writer, ds *metrics.Dataset) error {
	return dumpYAML(w, ds)
}

func dumpYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding raw metrics: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding raw metrics: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}
