package httpapi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

var csvResultColumns = []string{"skater_id", "placement", "short_placement", "faults", "personal_best", "withdrawn"}

func (h *Handler) ImportResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportResults")
	defer span.End()

	var (
		rows []usecase.ResultRow
		err  error
	)
	if isCSV(r.Header.Get("Content-Type")) {
		rows, err = parseResultsCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	} else {
		var req importResultsRequest
		err = h.decodeRequest(ctx, w, r, &req)
		for _, row := range req.Rows {
			rows = append(rows, row.toUsecase())
		}
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	report, err := h.resultsService.ImportResults(ctx, usecase.ImportResultsInput{ContestID: contestID, Rows: rows})
	if err != nil {
		h.logger.ErrorContext(ctx, "import results failed", "contest_id", contestID, "rows", len(rows), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, importReportToDTO(report))
}

func (h *Handler) RecalculateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateContest")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	report, err := h.resultsService.Recalculate(ctx, contestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculate contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cascadeToDTO(report))
}

func isCSV(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/csv"
}

// parseResultsCSV reads rows keyed by the header line. Columns may come in
// any order; only skater_id is mandatory. Blank cells read as zero. A cell
// that does not parse marks its row instead of failing the payload; header
// and record structure errors still fail it.
func parseResultsCSV(body io.Reader) ([]usecase.ResultRow, error) {
	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv payload is empty", usecase.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: read csv header: %v", usecase.ErrInvalidInput, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index["skater_id"]; !ok {
		return nil, fmt.Errorf("%w: csv header must include skater_id, known columns: %s", usecase.ErrInvalidInput, strings.Join(csvResultColumns, ","))
	}
	reader.FieldsPerRecord = len(header)

	var rows []usecase.ResultRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %v", usecase.ErrInvalidInput, err)
		}

		row, err := csvRecordToRow(index, record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			row.ParseError = fmt.Sprintf("csv line %d: %v", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func csvRecordToRow(index map[string]int, record []string) (usecase.ResultRow, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	intCell := func(name string) (int, error) {
		raw := cell(name)
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s=%q is not an integer", name, raw)
		}
		return v, nil
	}
	boolCell := func(name string) (bool, error) {
		raw := cell(name)
		if raw == "" {
			return false, nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("%s=%q is not a boolean", name, raw)
		}
		return v, nil
	}

	row := usecase.ResultRow{SkaterID: cell("skater_id")}
	var err error
	if row.Placement, err = intCell("placement"); err != nil {
		return row, err
	}
	if row.ShortPlacement, err = intCell("short_placement"); err != nil {
		return row, err
	}
	if row.Faults, err = intCell("faults"); err != nil {
		return row, err
	}
	if row.PersonalBest, err = boolCell("personal_best"); err != nil {
		return row, err
	}
	if row.Withdrawn, err = boolCell("withdrawn"); err != nil {
		return row, err
	}
	return row, nil
}
