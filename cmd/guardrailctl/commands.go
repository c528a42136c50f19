package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"sigs.k8s.io/yaml"

	"github.com/skillcoder/guardrail-controller/internal/adapters/inbound/valuesfile"
	"github.com/skillcoder/guardrail-controller/internal/infra/logging"
	"github.com/skillcoder/guardrail-controller/internal/logic/chart"
)

const (
	name = "guardrailctl"

	outputJSON = "json"
	outputYAML = "yaml"
)

var errUnsupportedOutput = errors.New("unsupported output format")

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     "Validate and render deployment values against the resource guardrails",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log format (text, json)",
			},
		},
		Commands: []*cli.Command{
			validateCmd(stdin, stdout, stderr),
			renderCmd(stdin, stdout, stderr),
		},
	}
}

func valuesFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:     "values",
		Aliases:  []string{"f"},
		Required: true,
		Usage:    `values file, repeatable; later files override earlier ones, "-" reads stdin`,
	}
}

func validateCmd(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate values and print the normalized configuration",
		Flags: []cli.Flag{
			valuesFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   outputYAML,
				Usage:   "output format (json, yaml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			values, err := valuesfile.Load(stdin, cmd.StringSlice("values")...)
			if err != nil {
				return err
			}

			engine := chart.New(newLogger(cmd, stderr))

			cfg, err := engine.ValidateQuery(ctx, chart.SourceCLI, values)
			if err != nil {
				return err
			}

			out, err := encode(cfg, cmd.String("output"))
			if err != nil {
				return err
			}

			_, err = stdout.Write(out)

			return err
		},
	}
}

func renderCmd(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Validate values and render the Kubernetes manifests",
		Flags: []cli.Flag{
			valuesFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write manifests to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			values, err := valuesfile.Load(stdin, cmd.StringSlice("values")...)
			if err != nil {
				return err
			}

			engine := chart.New(newLogger(cmd, stderr))

			out, err := engine.RenderQuery(ctx, chart.SourceCLI, values)
			if err != nil {
				return err
			}

			path := cmd.String("output")
			if path == "" {
				_, err = stdout.Write(out)

				return err
			}

			if err := os.WriteFile(path, out, 0o600); err != nil {
				return fmt.Errorf("write manifests: %w", err)
			}

			return nil
		},
	}
}

func newLogger(cmd *cli.Command, stderr io.Writer) *slog.Logger {
	return logging.NewWithWriter(stderr, cmd.String("log-format"), cmd.String("log-level"), name)
}

func encode(v any, format string) ([]byte, error) {
	switch format {
	case outputJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}

		return append(out, '\n'), nil
	case outputYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedOutput, format)
	}
}
