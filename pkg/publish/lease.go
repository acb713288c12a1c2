package publish

import (
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/pawprint/pawprint/pkg/errors"
)

// LeaseInfo is the on-disk body of a run lease: who holds the snapshot
// target and since when.
type LeaseInfo struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	PID        int       `json:"pid" yaml:"pid"`
	Hostname   string    `json:"hostname" yaml:"hostname"`
	AcquiredAt time.Time `json:"acquired_at" yaml:"acquired_at"`
}

// Lease is a single-owner run lock over a snapshot target. Two
// reconciliation runs must never write the same target concurrently;
// the lease file is created exclusively, so losing the race means the
// run refuses to start.
type Lease struct {
	path string
	info LeaseInfo
}

// AcquireLease takes the lease at path for the given run. A held lease
// yields ErrLeaseHeld with the current owner when it is readable.
func AcquireLease(path, runID string) (*Lease, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			owner := ""
			if holder, readErr := ReadLease(path); readErr == nil && holder != nil {
				owner = holder.RunID
			}
			return nil, &errors.LeaseError{Path: path, Owner: owner}
		}
		return nil, errors.WrapIO("create", path, err)
	}

	hostname, _ := os.Hostname()
	info := LeaseInfo{
		RunID:      runID,
		PID:        os.Getpid(),
		Hostname:   hostname,
		AcquiredAt: time.Now().UTC(),
	}

	data, err := yaml.Marshal(info)
	if err == nil {
		_, err = f.Write(data)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, errors.WrapIO("write", path, err)
	}

	return &Lease{path: path, info: info}, nil
}

// Release removes the lease file. Safe to call once per acquired lease.
func (l *Lease) Release() error {
	if err := os.Remove(l.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapIO("delete", l.path, err)
	}
	return nil
}

// Info returns the lease body written at acquisition.
func (l *Lease) Info() LeaseInfo {
	return l.info
}

// ReadLease reads the lease at path without taking it. Returns nil when
// no lease is held.
func ReadLease(path string) (*LeaseInfo, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from run configuration
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var info LeaseInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &info, nil
}
