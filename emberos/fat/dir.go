package fat

import "encoding/binary"

// Directory entry attribute bits.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20

	// AttrLongName marks a long-file-name fragment; those entries are
	// skipped entirely.
	AttrLongName = 0x0f
)

// DirectoryEntry is one 32-byte 8.3 directory record.
type DirectoryEntry struct {
	Name             [11]byte
	Attr             uint8
	FirstClusterHigh uint16
	FirstClusterLow  uint16
	FileSize         uint32
}

func decodeDirectoryEntry(b []byte) DirectoryEntry {
	var e DirectoryEntry
	copy(e.Name[:], b[0:11])
	e.Attr = b[11]
	e.FirstClusterHigh = binary.LittleEndian.Uint16(b[20:])
	e.FirstClusterLow = binary.LittleEndian.Uint16(b[26:])
	e.FileSize = binary.LittleEndian.Uint32(b[28:])
	return e
}

// FirstCluster joins the split cluster halves.
func (e DirectoryEntry) FirstCluster() uint32 {
	return uint32(e.FirstClusterLow) | uint32(e.FirstClusterHigh)<<16
}

// IsDirectory reports whether the entry names a subdirectory.
func (e DirectoryEntry) IsDirectory() bool { return e.Attr&AttrDirectory != 0 }

// ReadName splits the raw 11 bytes into the base name and extension, with
// trailing padding spaces trimmed.
func ReadName(e DirectoryEntry) (base, ext string) {
	b := e.Name[0:8]
	for len(b) > 0 && b[len(b)-1] == 0x20 {
		b = b[:len(b)-1]
	}
	x := e.Name[8:11]
	for len(x) > 0 && x[len(x)-1] == 0x20 {
		x = x[:len(x)-1]
	}
	return string(b), string(x)
}

// FormatName renders the entry as NAME or NAME.EXT.
func FormatName(e DirectoryEntry) string {
	base, ext := ReadName(e)
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// nameTo83 uppercases and pads a query like "hello.txt" into the raw
// 11-byte 8.3 layout.
func nameTo83(name string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = 0x20
	}
	pos := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' {
			pos = 8
			continue
		}
		if pos >= len(out) {
			break
		}
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[pos] = c
		pos++
	}
	return out
}

// NameIsEqual compares an entry against a query name, case-insensitively,
// after the uppercase+pad transform.
func NameIsEqual(e DirectoryEntry, name string) bool {
	return e.Name == nameTo83(name)
}

// visitDirectory walks every live 8.3 entry of the directory chain rooted at
// cluster. The callback returns false to stop early.
func (v *Volume) visitDirectory(cluster uint32, fn func(DirectoryEntry) bool) {
	for cluster != 0 && cluster != EndOfChain {
		data := v.ClusterBytes(cluster)
		for off := 0; off+directoryEntrySize <= len(data); off += directoryEntrySize {
			if data[off] == 0x00 {
				return
			}
			if data[off] == 0xe5 {
				continue
			}
			e := decodeDirectoryEntry(data[off:])
			if e.Attr == AttrLongName {
				continue
			}
			if !fn(e) {
				return
			}
		}
		cluster = v.NextCluster(cluster)
	}
}

// VisitRootEntries walks the live entries of a directory; cluster 0 means
// the root directory.
func (v *Volume) VisitRootEntries(cluster uint32, fn func(DirectoryEntry) bool) {
	if cluster == 0 {
		cluster = v.bpb.RootCluster
	}
	v.visitDirectory(cluster, fn)
}

// FindFile looks name up in the directory chain starting at
// directoryCluster (0 means the root directory).
func (v *Volume) FindFile(name string, directoryCluster uint32) (DirectoryEntry, bool) {
	var found DirectoryEntry
	ok := false
	v.VisitRootEntries(directoryCluster, func(e DirectoryEntry) bool {
		if NameIsEqual(e, name) {
			found = e
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// LoadFile copies up to len(dst) bytes of the entry's data by walking its
// cluster chain. It returns the number of bytes copied.
func (v *Volume) LoadFile(dst []byte, e DirectoryEntry) int {
	cluster := e.FirstCluster()
	total := 0
	for cluster != 0 && cluster != EndOfChain && total < len(dst) {
		data := v.ClusterBytes(cluster)
		n := copy(dst[total:], data)
		total += n
		cluster = v.NextCluster(cluster)
	}
	return total
}
