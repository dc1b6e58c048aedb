// Package fatimg builds small FAT32 volume images.
//
// It is the write-side companion of the read-only fat package, used by the
// mkvolume host tool and by tests that need a synthetic boot volume. Only
// 8.3 names in the root directory are supported.
package fatimg

import (
	"encoding/binary"
	"fmt"
)

const (
	bytesPerSector    = 512
	sectorsPerCluster = 1
	reservedSectors   = 32
	numFATs           = 2

	bytesPerCluster     = bytesPerSector * sectorsPerCluster
	entriesPerCluster   = bytesPerCluster / 32
	endOfChain          = uint32(0x0fffffff)
	fatEntriesPerSector = bytesPerSector / 4
)

// File is one root-directory file to place in the image.
type File struct {
	Name string
	Data []byte
}

func clustersFor(n int) int {
	return (n + bytesPerCluster - 1) / bytesPerCluster
}

// Build lays out a FAT32 volume containing the files in the root directory.
func Build(files []File) ([]byte, error) {
	rootClusters := clustersFor(len(files) * 32)
	if rootClusters == 0 {
		rootClusters = 1
	}
	dataClusters := rootClusters
	for _, f := range files {
		if err := checkName(f.Name); err != nil {
			return nil, err
		}
		dataClusters += clustersFor(len(f.Data))
	}

	fatEntries := dataClusters + 2
	fatSectors := (fatEntries + fatEntriesPerSector - 1) / fatEntriesPerSector
	totalSectors := reservedSectors + numFATs*fatSectors + dataClusters*sectorsPerCluster

	image := make([]byte, totalSectors*bytesPerSector)
	writeBPB(image, uint32(fatSectors), uint32(totalSectors))

	fat := fatWriter{image: image}
	fat.set(0, 0x0ffffff8)
	fat.set(1, endOfChain)

	// Cluster 2.. : root directory, then file data in declaration order.
	next := uint32(2)
	rootChain := fat.chain(&next, rootClusters)

	dataStart := reservedSectors + numFATs*fatSectors
	clusterBytes := func(c uint32) []byte {
		off := (dataStart + int(c-2)*sectorsPerCluster) * bytesPerSector
		return image[off : off+bytesPerCluster]
	}

	for i, f := range files {
		first := uint32(0)
		n := clustersFor(len(f.Data))
		if n > 0 {
			first = next
			chain := fat.chain(&next, n)
			for j, c := range chain {
				lo := j * bytesPerCluster
				hi := lo + bytesPerCluster
				if hi > len(f.Data) {
					hi = len(f.Data)
				}
				copy(clusterBytes(c), f.Data[lo:hi])
			}
		}
		writeDirEntry(clusterBytes(rootChain[i/entriesPerCluster]),
			(i%entriesPerCluster)*32, f.Name, first, uint32(len(f.Data)))
	}
	return image, nil
}

func checkName(name string) error {
	base, ext := 0, 0
	inExt := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' {
			if inExt {
				return fmt.Errorf("fatimg: %q: more than one dot", name)
			}
			inExt = true
			continue
		}
		if c == ' ' || c < 0x20 {
			return fmt.Errorf("fatimg: %q: bad character", name)
		}
		if inExt {
			ext++
		} else {
			base++
		}
	}
	if base == 0 || base > 8 || ext > 3 {
		return fmt.Errorf("fatimg: %q does not fit 8.3", name)
	}
	return nil
}

func writeBPB(image []byte, fatSectors, totalSectors uint32) {
	le := binary.LittleEndian
	copy(image[0:3], []byte{0xeb, 0x58, 0x90})
	copy(image[3:11], []byte("MKVOL1.0"))
	le.PutUint16(image[11:], bytesPerSector)
	image[13] = sectorsPerCluster
	le.PutUint16(image[14:], reservedSectors)
	image[16] = numFATs
	image[21] = 0xf8 // media descriptor: fixed disk
	le.PutUint32(image[32:], totalSectors)
	le.PutUint32(image[36:], fatSectors)
	le.PutUint32(image[44:], 2) // root cluster
	copy(image[82:90], []byte("FAT32   "))
	image[510] = 0x55
	image[511] = 0xaa
}

type fatWriter struct {
	image []byte
}

func (w fatWriter) set(cluster, value uint32) {
	for f := 0; f < numFATs; f++ {
		fatBase := (reservedSectors + f*w.fatSectors()) * bytesPerSector
		binary.LittleEndian.PutUint32(w.image[fatBase+int(cluster)*4:], value)
	}
}

func (w fatWriter) fatSectors() int {
	return int(binary.LittleEndian.Uint32(w.image[36:]))
}

// chain allocates n sequential clusters starting at *next and links them.
func (w fatWriter) chain(next *uint32, n int) []uint32 {
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		c := *next
		*next = c + 1
		out = append(out, c)
		if i == n-1 {
			w.set(c, endOfChain)
		} else {
			w.set(c, c+1)
		}
	}
	return out
}

func writeDirEntry(cluster []byte, off int, name string, firstCluster, size uint32) {
	e := cluster[off : off+32]
	for i := 0; i < 11; i++ {
		e[i] = 0x20
	}
	pos := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' {
			pos = 8
			continue
		}
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		e[pos] = c
		pos++
	}
	e[11] = 0x20 // archive
	le := binary.LittleEndian
	le.PutUint16(e[20:], uint16(firstCluster>>16))
	le.PutUint16(e[26:], uint16(firstCluster))
	le.PutUint32(e[28:], size)
}
