package buffer

// EditScope collects edits against one snapshot and commits them as a
// single version. Observers (tracking points, snapshots) see one transition
// from the scope's snapshot to the result; nothing is applied before Apply.
//
// Usage:
//
//	edit := buf.CreateEdit()
//	defer edit.Cancel()
//	edit.Insert(10, "    ")
//	edit.Replace(buffer.NewRange(20, 24), "pass")
//	if _, err := edit.Apply(); err != nil {
//	    return err
//	}
type EditScope struct {
	buf    *Buffer
	snap   *Snapshot
	edits  []Edit
	closed bool
}

// CreateEdit starts an edit scope on the current snapshot.
func (b *Buffer) CreateEdit() *EditScope {
	return &EditScope{
		buf:  b,
		snap: b.Snapshot(),
	}
}

// Snapshot returns the snapshot all offsets of the scope refer to.
func (s *EditScope) Snapshot() *Snapshot {
	return s.snap
}

// Insert queues an insertion at offset.
func (s *EditScope) Insert(offset ByteOffset, text string) error {
	if offset < 0 || offset > s.snap.Len() {
		return ErrOffsetOutOfRange
	}
	return s.add(NewInsert(offset, text))
}

// Replace queues the replacement of r with text.
func (s *EditScope) Replace(r Range, text string) error {
	if r.Start < 0 || !r.IsValid() || r.End > s.snap.Len() {
		return ErrRangeInvalid
	}
	return s.add(NewEdit(r, text))
}

// Delete queues the deletion of r.
func (s *EditScope) Delete(r Range) error {
	return s.Replace(r, "")
}

func (s *EditScope) add(e Edit) error {
	if s.closed {
		return ErrScopeClosed
	}
	if e.IsNoOp() {
		return nil
	}
	s.edits = append(s.edits, e)
	return nil
}

// HasEdits reports whether any edit was queued.
func (s *EditScope) HasEdits() bool {
	return len(s.edits) > 0
}

// Edits returns a copy of the queued edits in issue order.
func (s *EditScope) Edits() []Edit {
	return append([]Edit(nil), s.edits...)
}

// Apply commits all queued edits atomically and closes the scope.
// It fails without modifying the buffer if the buffer changed since the
// scope was created or if the edits overlap. An empty scope is a no-op
// that returns the scope's snapshot.
func (s *EditScope) Apply() (*Snapshot, error) {
	if s.closed {
		return nil, ErrScopeClosed
	}
	s.closed = true

	if len(s.edits) == 0 {
		return s.snap, nil
	}

	s.buf.mu.Lock()
	defer s.buf.mu.Unlock()
	return s.buf.commitLocked(s.snap.Version(), s.edits)
}

// Cancel discards the scope. Safe to call after Apply.
func (s *EditScope) Cancel() {
	s.closed = true
	s.edits = nil
}
