package store

import (
	"context"
	"fmt"
	"log"

	"github.com/iliyamo/school-attendance/internal/model"
)

// Cascade deletes a student across the three stores as one logical
// unit.  The sub-deletions run in a fixed roster -> ledger -> liveness
// order, which is also the only order in which any code path acquires
// more than one store lock.  There is no rollback: if a later step
// fails after an earlier one committed, the failure is logged and
// surfaced as a *PartialCascadeError naming the completed steps, so
// reconciliation can finish the job instead of guessing.
type Cascade struct {
	roster   *Roster
	ledger   *Ledger
	liveness *LivenessStore
}

// NewCascade wires the coordinator over the three stores.
func NewCascade(roster *Roster, ledger *Ledger, liveness *LivenessStore) *Cascade {
	return &Cascade{roster: roster, ledger: ledger, liveness: liveness}
}

// DeleteStudent removes the roster entry, every attendance record for
// the student (pruning emptied date partitions), and the liveness
// registration keyed by the student's roll number.  Fails with
// ErrNotFound when the student does not exist; nothing is touched in
// that case.
func (c *Cascade) DeleteStudent(ctx context.Context, id int) (model.Student, error) {
	student, err := c.roster.Delete(ctx, id)
	if err != nil {
		// Nothing committed yet: NotFound and storage failures on the
		// first step leave all three stores untouched.
		return model.Student{}, err
	}

	if err := c.ledger.RemoveAllForStudent(ctx, id); err != nil {
		perr := &PartialCascadeError{
			StudentID: id,
			Completed: []CascadeStep{StepRoster},
			Failed:    StepLedger,
			Err:       err,
		}
		log.Printf("cascade: %v", perr)
		return student, perr
	}

	if err := c.liveness.Remove(ctx, student.RollNumber); err != nil {
		perr := &PartialCascadeError{
			StudentID: id,
			Completed: []CascadeStep{StepRoster, StepLedger},
			Failed:    StepLiveness,
			Err:       err,
		}
		log.Printf("cascade: %v", perr)
		return student, perr
	}

	return student, nil
}

// Verify reports whether any satellite data is left behind for a
// student id / roll number pair that is no longer on the roster.  It
// is the reconciliation counterpart of DeleteStudent.
func (c *Cascade) Verify(id int, roll string) error {
	if len(c.ledger.History(id)) > 0 {
		return fmt.Errorf("orphaned attendance records for student %d", id)
	}
	if c.liveness.IsRegistered(roll) {
		return fmt.Errorf("orphaned liveness registration for roll %s", roll)
	}
	return nil
}
