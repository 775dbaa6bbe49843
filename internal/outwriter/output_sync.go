package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
)

// PrintSyncReport outputs the sync coordinator state and, when reachable, the remote status.
func PrintSyncReport(report schema.SyncReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSyncCSV(w, report)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSyncText(w, report)
		}, "Wrote text")
	}
}

func writeSyncText(w io.Writer, report schema.SyncReport) error {
	code := report.Code
	if code == "" {
		code = contract.MutedColor.Sprint("(none)")
	}
	if _, err := fmt.Fprintf(w, "Sync Status: %s\nRecovery Code: %s\nBackend: %s\n",
		contract.ColorStatus(report.Status), code, report.Backend); err != nil {
		return err
	}
	if report.Remote == nil {
		return nil
	}
	r := report.Remote
	if _, err := fmt.Fprintf(w, "Remote Records: %d\nTable Size: %d bytes\n", r.TotalRecords, r.TableSizeBytes); err != nil {
		return err
	}
	if r.TotalRecords > 0 {
		_, err := fmt.Fprintf(w, "Last Update: %s\n", r.LastUpdateTime.Format(contract.DateTimeFormat))
		return err
	}
	return nil
}

func writeSyncCSV(w io.Writer, report schema.SyncReport) error {
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"status", string(report.Status)},
			{"code", report.Code},
			{"backend", report.Backend},
		}
		if report.Remote != nil {
			rows = append(rows,
				[]string{"remote_records", strconv.Itoa(report.Remote.TotalRecords)},
				[]string{"table_size_bytes", strconv.FormatInt(report.Remote.TableSizeBytes, 10)},
			)
		}
		return cw.WriteAll(rows)
	})
}
