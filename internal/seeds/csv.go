package seeds

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
)

// CSV contract
// content,important,task_done
// important and task_done are optional and default to false.

func ParseTodosCSV(r io.Reader) ([]models.Todo, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty CSV")
		}
		return nil, err
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	contentCol, ok := cols["content"]
	if !ok {
		return nil, errors.New(`CSV header must include "content"`)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	flag := func(rec []string, name string, line int) (bool, error) {
		v := field(rec, name)
		if v == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("line %d: %s: %w", line, name, err)
		}
		return b, nil
	}

	var out []models.Todo
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if contentCol >= len(rec) || strings.TrimSpace(rec[contentCol]) == "" {
			return nil, fmt.Errorf("line %d: content is required", line)
		}

		important, err := flag(rec, "important", line)
		if err != nil {
			return nil, err
		}
		done, err := flag(rec, "task_done", line)
		if err != nil {
			return nil, err
		}

		out = append(out, models.Todo{
			Content:   strings.TrimSpace(rec[contentCol]),
			Important: important,
			Done:      done,
		})
	}
	return out, nil
}
