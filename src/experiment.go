package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Shared context the experiment drivers receive: the
 *		session, the settings store and the archive location.
 *
 *		Plain value, no shared mutable base state.  A run
 *		directory is named by timestamp and experiment kind and
 *		holds one binary blob with inputs, outputs and
 *		references.
 *
 *------------------------------------------------------------------*/

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"
)

// ExperimentContext carries what every driver needs.
type ExperimentContext struct {
	Session *Session
	Config  ConfigStore

	// RunsDir is where run directories are created.  Empty disables
	// archival.
	RunsDir string
}

const runStampFormat = "%Y%m%d_%H%M%S"

// NewRunDir creates the archive directory for one experiment run.
func (c *ExperimentContext) NewRunDir(kind string, id int) (string, error) {
	if c.RunsDir == "" {
		return "", nil
	}
	stamp, err := strftime.Format(runStampFormat, time.Now())
	if err != nil {
		return "", fmt.Errorf("run dir stamp: %w", err)
	}
	dir := filepath.Join(c.RunsDir, fmt.Sprintf("%s_%s%02d", stamp, kind, id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// SaveResults writes one experiment result blob into dir.  A gob stream
// keeps inputs, outputs and references in a single file.
func SaveResults(dir, name string, v any) error {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, name+".bin")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result blob: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encode result blob: %w", err)
	}
	return nil
}

// timeStream runs one Stream call and reports how long the transfer took.
func timeStream(s *Session, payload []byte) ([]byte, time.Duration, error) {
	start := time.Now()
	raw, err := s.Stream(payload)
	return raw, time.Since(start), err
}
