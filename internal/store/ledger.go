package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/school-attendance/internal/model"
)

// Ledger is the date-partitioned attendance record: date string ->
// student id -> record.  At most one record exists per (date, student)
// pair; marking again the same day overwrites it.  A date partition
// with no records left is pruned rather than kept empty.
//
// The ledger references students by id only.  It holds no ownership
// over roster entries and tolerates marks for ids it has never seen;
// dangling ids are detected and cleaned at cascade time.
type Ledger struct {
	mu      sync.RWMutex
	days    map[string]map[int]model.AttendanceRecord
	persist Persister
}

// NewLedger restores the attendance collection from the persister.
func NewLedger(ctx context.Context, p Persister) (*Ledger, error) {
	l := &Ledger{days: make(map[string]map[int]model.AttendanceRecord), persist: p}
	serialized := make(map[string]map[string]model.AttendanceRecord)
	if _, err := p.Load(ctx, CollectionAttendance, &serialized); err != nil {
		return nil, err
	}
	for date, byStudent := range serialized {
		day := make(map[int]model.AttendanceRecord, len(byStudent))
		for idStr, rec := range byStudent {
			var id int
			if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
				continue
			}
			day[id] = rec
		}
		l.days[date] = day
	}
	return l, nil
}

// Mark upserts the (date, student) cell.  Idempotent by design: the
// second mark of a day replaces status and timestamp, it does not add
// a second record.
func (l *Ledger) Mark(ctx context.Context, studentID int, date, status string) (model.AttendanceRecord, error) {
	if status == "" {
		status = model.StatusPresent
	}
	if status != model.StatusPresent && status != model.StatusAbsent {
		return model.AttendanceRecord{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if _, err := time.Parse(model.DOBLayout, date); err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	rec := model.AttendanceRecord{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Method:    model.MethodLiveness,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.saveLocked(ctx, func(days map[string]map[int]model.AttendanceRecord) {
		day := days[date]
		if day == nil {
			day = make(map[int]model.AttendanceRecord)
			days[date] = day
		}
		day[studentID] = rec
	}); err != nil {
		return model.AttendanceRecord{}, err
	}

	day := l.days[date]
	if day == nil {
		day = make(map[int]model.AttendanceRecord)
		l.days[date] = day
	}
	day[studentID] = rec
	return rec, nil
}

// History returns every record for a student across all dates, most
// recent date first.
func (l *Ledger) History(studentID int) []model.AttendanceEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.AttendanceEntry, 0)
	for date, day := range l.days {
		if rec, ok := day[studentID]; ok {
			out = append(out, model.AttendanceEntry{Date: date, AttendanceRecord: rec})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// ForDate returns the records of one date partition.  A date with no
// partition yields an empty map; callers treat missing students as
// implicitly absent.
func (l *Ledger) ForDate(date string) map[int]model.AttendanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[int]model.AttendanceRecord, len(l.days[date]))
	for id, rec := range l.days[date] {
		out[id] = rec
	}
	return out
}

// Remove deletes the (date, student) record, pruning the partition if
// it becomes empty.  Fails with ErrNotFound when no such record exists.
func (l *Ledger) Remove(ctx context.Context, studentID int, date string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	day, ok := l.days[date]
	if !ok {
		return fmt.Errorf("%w: no attendance records for %s", ErrNotFound, date)
	}
	if _, ok := day[studentID]; !ok {
		return fmt.Errorf("%w: no attendance record for student %d on %s", ErrNotFound, studentID, date)
	}

	if err := l.saveLocked(ctx, func(days map[string]map[int]model.AttendanceRecord) {
		delete(days[date], studentID)
		if len(days[date]) == 0 {
			delete(days, date)
		}
	}); err != nil {
		return err
	}

	delete(day, studentID)
	if len(day) == 0 {
		delete(l.days, date)
	}
	return nil
}

// RemoveAllForStudent deletes every record of the student across all
// dates, pruning emptied partitions.  Removing nothing is not an
// error; the cascade coordinator calls this unconditionally.
func (l *Ledger) RemoveAllForStudent(ctx context.Context, studentID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.saveLocked(ctx, func(days map[string]map[int]model.AttendanceRecord) {
		for date, day := range days {
			delete(day, studentID)
			if len(day) == 0 {
				delete(days, date)
			}
		}
	}); err != nil {
		return err
	}

	for date, day := range l.days {
		delete(day, studentID)
		if len(day) == 0 {
			delete(l.days, date)
		}
	}
	return nil
}

// saveLocked clones the partitions, applies the mutation to the clone
// and persists it.  The live map is only touched by the caller after
// the persister accepts the snapshot.
func (l *Ledger) saveLocked(ctx context.Context, mutate func(map[string]map[int]model.AttendanceRecord)) error {
	clone := make(map[string]map[int]model.AttendanceRecord, len(l.days))
	for date, day := range l.days {
		cp := make(map[int]model.AttendanceRecord, len(day))
		for id, rec := range day {
			cp[id] = rec
		}
		clone[date] = cp
	}
	mutate(clone)

	serialized := make(map[string]map[string]model.AttendanceRecord, len(clone))
	for date, day := range clone {
		byStudent := make(map[string]model.AttendanceRecord, len(day))
		for id, rec := range day {
			byStudent[fmt.Sprintf("%d", id)] = rec
		}
		serialized[date] = byStudent
	}
	return l.persist.Save(ctx, CollectionAttendance, serialized)
}
