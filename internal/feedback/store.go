package feedback

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Store is an append-only JSONL issue log. One issue per line, written
// whole under a mutex so concurrent reporters never interleave partial
// records. Prior lines are never rewritten; a status change appends a new
// record with the same correlation id.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore opens (creating if needed) the feedback log at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating feedback dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening feedback log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// Path returns the log file location.
func (s *Store) Path() string { return s.path }

// Report validates and appends a new issue, assigning its id, correlation
// id, timestamp, and open status. The assigned issue id is returned.
func (s *Store) Report(issue types.FeedbackIssue) (string, error) {
	issue.IssueID = uuid.NewString()
	if issue.CorrelationID == "" {
		issue.CorrelationID = issue.IssueID
	}
	issue.Timestamp = time.Now().UTC()
	if issue.Status == "" {
		issue.Status = types.StatusOpen
	}
	if err := issue.Validate(); err != nil {
		return "", err
	}
	if err := s.append(&issue); err != nil {
		return "", err
	}
	return issue.IssueID, nil
}

// Resolve appends a resolution record for the issue identified by
// correlationID. The original record stays in the log untouched.
func (s *Store) Resolve(correlationID, note string) (string, error) {
	if note == "" {
		note = "resolved"
	}
	issue := types.FeedbackIssue{
		IssueID:       uuid.NewString(),
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
		Type:          types.IssueOther,
		Description:   note,
		Severity:      types.SeverityLow,
		Status:        types.StatusResolved,
	}
	if err := s.append(&issue); err != nil {
		return "", err
	}
	return issue.IssueID, nil
}

func (s *Store) append(issue *types.FeedbackIssue) error {
	data, err := json.Marshal(issue)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening feedback log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending issue: %w", err)
	}
	return f.Sync()
}

// ReadAll returns every parseable issue in log order plus one warning per
// corrupt line. A torn final line from an interrupted write is reported,
// never fatal.
func (s *Store) ReadAll() ([]*types.FeedbackIssue, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("opening feedback log: %w", err)
	}
	defer f.Close()

	var issues []*types.FeedbackIssue
	var warnings []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var issue types.FeedbackIssue
		if err := json.Unmarshal(line, &issue); err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: corrupt record skipped: %v", lineNo, err))
			continue
		}
		if err := issue.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: invalid record skipped: %v", lineNo, err))
			continue
		}
		issues = append(issues, &issue)
	}
	if err := scanner.Err(); err != nil {
		return issues, warnings, fmt.Errorf("reading feedback log: %w", err)
	}
	return issues, warnings, nil
}
