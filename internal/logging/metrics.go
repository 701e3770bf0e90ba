package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gosuri/uitable"

	"lightneat/internal/env"
	"lightneat/internal/eval"
)

// Logger handles all training output and artifact saving
type Logger struct {
	RunID string

	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	console     io.Writer
	initialized bool
}

var csvHeader = []string{
	"generation", "ticks", "best", "all_time_best", "solved",
	"fitness_mean", "fitness_std", "fitness_max",
	"score_mean", "score_std", "score_max",
	"nodes_mean", "conns_mean", "parent", "restart",
}

// NewLogger creates a logger with a fresh run id
func NewLogger(csvPath, jsonPath string) (*Logger, error) {
	l := &Logger{
		RunID:    uuid.NewString(),
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  os.Stdout,
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// SetOutput redirects console output
func (l *Logger) SetOutput(w io.Writer) {
	l.console = w
}

// Init creates the log files and writes the CSV header
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)
	if err := l.csvWriter.Write(csvHeader); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close flushes and closes all log files
func (l *Logger) Close() {
	if l.csvWriter != nil {
		l.csvWriter.Flush()
	}
	if l.csvFile != nil {
		l.csvFile.Close()
	}
	if l.jsonFile != nil {
		l.jsonFile.Close()
	}
}

type jsonRecord struct {
	RunID string `json:"run_id"`
	env.GenerationStats
}

// LogGeneration appends a generation to the CSV and JSON logs and, when
// console is set, prints a one-line summary
func (l *Logger) LogGeneration(s env.GenerationStats, console bool) error {
	if !l.initialized {
		return nil
	}

	row := []string{
		strconv.Itoa(s.Generation),
		strconv.Itoa(s.Ticks),
		strconv.Itoa(s.Best),
		strconv.Itoa(s.AllTimeBest),
		strconv.Itoa(s.Solved),
		fmt.Sprintf("%.3f", s.FitnessMean),
		fmt.Sprintf("%.3f", s.FitnessStd),
		fmt.Sprintf("%.3f", s.FitnessMax),
		fmt.Sprintf("%.3f", s.ScoreMean),
		fmt.Sprintf("%.3f", s.ScoreStd),
		fmt.Sprintf("%.3f", s.ScoreMax),
		fmt.Sprintf("%.2f", s.NodesMean),
		fmt.Sprintf("%.2f", s.ConnsMean),
		strconv.Itoa(s.Parent),
		strconv.FormatBool(s.Restart),
	}
	if err := l.csvWriter.Write(row); err != nil {
		return err
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return err
	}

	line, err := json.Marshal(jsonRecord{RunID: l.RunID, GenerationStats: s})
	if err != nil {
		return err
	}
	if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
		return err
	}

	if console {
		restart := ""
		if s.Restart {
			restart = " | restart"
		}
		fmt.Fprintf(l.console, "Gen %5d | Best: %2d (all-time %2d) | Solved: %3d | Fitness: %7.2f ±%6.2f max %6.1f | Nodes: %5.1f | Conns: %5.1f | Ops: %s%s\n",
			s.Generation, s.Best, s.AllTimeBest, s.Solved, s.FitnessMean, s.FitnessStd, s.FitnessMax,
			s.NodesMean, s.ConnsMean, formatOps(s.Mutations), restart)
	}
	return nil
}

func formatOps(ops map[string]int) string {
	if len(ops) == 0 {
		return "-"
	}
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, ops[name])
	}
	return strings.Join(parts, " ")
}

// LogTopK prints the best members of a generation as a table
func (l *Logger) LogTopK(gen int, top []eval.Standing) {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false
	table.AddRow("Rank", "Member", "Score", "Fitness", "Lit", "Nodes", "Conns")
	for i, s := range top {
		table.AddRow(i+1, s.Index, fmt.Sprintf("%.1f", s.Score), fmt.Sprintf("%.1f", s.Fitness), s.Lit, s.Nodes, s.Conns)
	}
	fmt.Fprintf(l.console, "  Top %d of generation %d:\n", len(top), gen)
	fmt.Fprintln(l.console, table)
}

// ReplayPath is where the replay of a generation is stored
func ReplayPath(dir string, gen int) string {
	return filepath.Join(dir, fmt.Sprintf("replay_gen%d.json", gen))
}

// SaveReplay writes r under dir and returns the file path
func SaveReplay(dir string, r *env.Replay) (string, error) {
	path := ReplayPath(dir, r.Generation)
	if err := r.Save(path); err != nil {
		return "", err
	}
	return path, nil
}
