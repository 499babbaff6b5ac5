// Export subcommand: publishes a recovery's metrics over OTLP or to stdout
// Uses a periodic reader; shutting the provider down flushes the last collection
package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const shutdownTimeout = 5 * time.Second

// otlpFactory builds a metric exporter for one OTLP wire protocol.
type otlpFactory func(ctx context.Context, opts exportOptions) (sdkmetric.Exporter, error)

var otlpProtocols = map[string]otlpFactory{
	"http/protobuf": newHTTPExporter,
	"grpc":          newGRPCExporter,
}

func validateProtocol(p string) error {
	if _, ok := otlpProtocols[p]; ok {
		return nil
	}
	names := slices.Sorted(maps.Keys(otlpProtocols))
	return fmt.Errorf("unsupported protocol %q, supported: %s", p, strings.Join(names, ", "))
}

type exportOptions struct {
	endpoint string
	insecure bool
	stdout   bool
	protocol string
}

func exportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [recovery-dir]",
		Short: "Publish a recovery's raw metrics as OpenTelemetry gauges",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateProtocol(opts.protocol); err != nil {
				return err
			}
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := commandConfig(cmd, configPath, args)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "OTLP endpoint (e.g. localhost:4318)")
	cmd.Flags().BoolVar(&opts.insecure, "insecure", true, "send to --endpoint without TLS")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "emit metrics to stdout as JSON")
	cmd.Flags().StringVar(&opts.protocol, "protocol", "http/protobuf", "OTLP protocol (http/protobuf or grpc)")

	return cmd
}

func runExport(ctx context.Context, stdout, stderr io.Writer, cfg appConfig, opts exportOptions) error {
	ds, err := loadDataset(cfg, stderr)
	if err != nil {
		return err
	}

	exporter, err := createMetricExporter(ctx, stdout, opts)
	if err != nil {
		return fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", "recoverymetrics"),
		attribute.String("recovery.log_dir", ds.LogDir),
	))
	if err != nil {
		return fmt.Errorf("building resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	e, err := metrics.NewExporter(mp, stderr)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return fmt.Errorf("creating instruments: %w", err)
	}
	n := e.Export(ctx, ds)

	// Shutdown flushes the periodic reader, so every gauge is exported once.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := mp.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down meter provider: %w", err)
	}

	_, _ = fmt.Fprintf(stderr, "exported %d measurements from %d servers\n", n, len(ds.Servers))
	return nil
}

// createMetricExporter writes JSON to stdout with --stdout, otherwise sends
// OTLP using the chosen protocol. Without --endpoint the exporters fall back
// to the OTEL_EXPORTER_OTLP_* environment.
func createMetricExporter(ctx context.Context, stdout io.Writer, opts exportOptions) (sdkmetric.Exporter, error) {
	if opts.stdout {
		return stdoutmetric.New(stdoutmetric.WithWriter(stdout))
	}
	if opts.protocol == "" {
		opts.protocol = "http/protobuf"
	}
	factory, ok := otlpProtocols[opts.protocol]
	if !ok {
		return nil, validateProtocol(opts.protocol)
	}
	return factory(ctx, opts)
}

func newHTTPExporter(ctx context.Context, opts exportOptions) (sdkmetric.Exporter, error) {
	var httpOpts []otlpmetrichttp.Option
	if opts.endpoint != "" {
		httpOpts = append(httpOpts, otlpmetrichttp.WithEndpoint(opts.endpoint))
		if opts.insecure {
			httpOpts = append(httpOpts, otlpmetrichttp.WithInsecure())
		}
	}
	return otlpmetrichttp.New(ctx, httpOpts...)
}

func newGRPCExporter(ctx context.Context, opts exportOptions) (sdkmetric.Exporter, error) {
	var grpcOpts []otlpmetricgrpc.Option
	if opts.endpoint != "" {
		grpcOpts = append(grpcOpts, otlpmetricgrpc.WithEndpoint(opts.endpoint))
		if opts.insecure {
			grpcOpts = append(grpcOpts, otlpmetricgrpc.WithInsecure())
		}
	}
	return otlpmetricgrpc.New(ctx, grpcOpts...)
}
