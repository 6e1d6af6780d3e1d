package binary

// ParseStringTable decodes an offset-indirected string table at the current
// position. A non-zero mask first XORs every byte from the end of the size
// field to the end of the buffer, not just the table.
//
// Layout after the size field (all offsets relative to base, the position
// right after the size field):
//
//	u32 offset[0] ... u32 offset[n-1]   pointer slots, offset[0] ends the slots
//	string\0 ...                        payloads
//
// Entries are returned in slot order.
func ParseStringTable(r *Reader, mask byte) ([]string, error) {
	// tableSize belongs to the container layout and is not validated here.
	if _, err := r.ReadU32(); err != nil {
		return nil, err
	}
	base := r.Position()

	if mask != 0 {
		for r.HasMore() {
			if err := r.XorByte(mask); err != nil {
				return nil, err
			}
		}
	}

	if err := r.Seek(base); err != nil {
		return nil, err
	}
	first, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	firstEntry := base + int(first)

	if err := r.Seek(base); err != nil {
		return nil, err
	}
	var entries []string
	for r.Position() < firstEntry {
		slot := r.Position()
		off, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		if err := r.Seek(base + int(off)); err != nil {
			return nil, err
		}
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		entries = append(entries, s)
		if err := r.Seek(slot + 4); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// WriteStringTable writes entries in the layout ParseStringTable reads and
// returns the table base (the position right after the size field). An
// empty table is a single zero slot so the reader stops immediately.
func WriteStringTable(w *Writer, entries []string) int {
	sizePos := w.Len()
	w.WriteU32(0)
	base := w.Len()

	if len(entries) == 0 {
		w.WriteU32(0)
		w.PutU32At(sizePos, 4)
		return base
	}

	off := uint32(4 * len(entries))
	for _, s := range entries {
		w.WriteU32(off)
		off += uint32(len(s) + 1)
	}
	for _, s := range entries {
		w.WriteCString(s)
	}
	w.PutU32At(sizePos, uint32(w.Len()-base))
	return base
}

// MaskTail XORs buf[from:] with mask in place, the encoder side of the
// whole-tail pass in ParseStringTable.
func MaskTail(buf []byte, from int, mask byte) {
	for i := from; i < len(buf); i++ {
		buf[i] ^= mask
	}
}
