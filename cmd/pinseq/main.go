package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
)

const usage = `usage: pinseq <command>

commands:
  diagnose           show the newest pins and the pin id sequence
  reset              move the pin id sequence to MAX(id)
  mark-placeholders  flag legacy seed accounts as placeholders
`

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if len(os.Args) != 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err := run(ctx, services.NewMaintenanceService(database.DB), os.Args[1], os.Stdout)
	cancel()
	if cerr := database.Close(database.DB); cerr != nil {
		slog.Error("database close error", "error", cerr)
	}
	if err != nil {
		slog.Error("pinseq failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

var errUnknownCommand = errors.New("unknown command")

func run(ctx context.Context, svc *services.MaintenanceService, cmd string, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	switch cmd {
	case "diagnose":
		d, err := svc.DiagnosePins(ctx)
		if err != nil {
			return err
		}
		return enc.Encode(d)
	case "reset":
		value, err := svc.ResetPinSequence(ctx)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]int64{"sequenceValue": value})
	case "mark-placeholders":
		n, err := svc.MarkLegacyPlaceholders(ctx)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]int64{"marked": n})
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}
