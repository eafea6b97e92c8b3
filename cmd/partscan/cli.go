package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/example/partscan/internal/errors"
	"github.com/example/partscan/internal/identifier"
	"github.com/example/partscan/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "partscan",
		Usage:   "Scan resolution and session engine",
		Version: Version,
		Commands: []*cli.Command{
			parseCmd(),
			scanCmd(d),
			historyCmd(d),
			latestCmd(d),
			clearCmd(d),
			queryCmd(d),
			devicesCmd(d),
			webCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// parseCmd creates the parse command.
func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a scanned payload into a part/order pair (no history record)",
		ArgsUsage: "[raw_text]",
		Action: func(c *cli.Context) error {
			raw := c.Args().First()
			if raw == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				raw = text
			}
			if raw == "" {
				return outputError(errors.NewInvalidRequest("raw_text is required (argument or stdin)"))
			}

			cand := identifier.Parse(raw)
			return outputJSON(map[string]string{
				"part_number":  cand.PartNumber,
				"order_number": cand.OrderNumber,
			})
		},
	}
}

// scanCmd creates the scan command.
func scanCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Resolve scanned payloads from stdin, one per line, recording each",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("scan payloads must be piped via stdin"))
			}

			enc := json.NewEncoder(os.Stdout)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				rec := d.engine.HandleDecode(line)
				if err := enc.Encode(rec); err != nil {
					return outputError(errors.NewInternal(err))
				}
			}
			if err := scanner.Err(); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// historyCmd creates the history command.
func historyCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent scan records, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum records to return"},
		},
		Action: func(c *cli.Context) error {
			limit := c.Int("limit")
			if limit < 0 {
				return outputError(errors.NewInvalidRequest("limit must not be negative"))
			}
			records := d.engine.Recent(limit)
			return outputJSON(map[string]any{
				"records": records,
				"count":   len(records),
			})
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "Show the most recent scan record",
		Action: func(c *cli.Context) error {
			records := d.engine.Recent(1)
			if len(records) == 0 {
				return outputError(errors.NewNotFound("latest"))
			}
			return outputJSON(records[0])
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Clear the scan history",
		Action: func(c *cli.Context) error {
			if err := d.engine.ClearHistory(); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]bool{"cleared": true})
		},
	}
}

// queryCmd creates the query command.
func queryCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Query the order backend with an identifier pair",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "part", Aliases: []string{"p"}, Usage: "Part number"},
			&cli.StringFlag{Name: "order", Aliases: []string{"o"}, Usage: "Order number"},
			&cli.BoolFlag{Name: "latest", Usage: "Use the pair from the most recent scan record"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("latest") {
				records := d.engine.Recent(1)
				if len(records) == 0 {
					return outputError(errors.NewNotFound("latest"))
				}
				d.engine.SetManual(records[0].PartNumber, records[0].OrderNumber)
			} else {
				d.engine.SetManual(c.String("part"), c.String("order"))
			}

			res, err := d.engine.Query(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(res)
		},
	}
}

// devicesCmd creates the devices command.
func devicesCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List available capture devices",
		Action: func(c *cli.Context) error {
			devices, err := d.cam.Enumerate()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"devices": devices,
				"count":   len(devices),
			})
		},
	}
}

// webCmd creates the web command.
func webCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the scan dashboard web UI",
		Action: func(c *cli.Context) error {
			go d.engine.Run(c.Context)
			// Auto-start on the first device; a missing camera is a
			// status in the UI, not a startup failure.
			_ = d.engine.StartScan("")
			srv := web.NewServer(d.cfg, d.engine, d.ui, Version)
			return srv.Run(c.Context)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.ScanError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
