// Package fat reads FAT32 volumes.
//
// The volume is an in-memory image of the boot partition; all access is
// read-only. Long file names are ignored: lookups work on the 8.3 short
// entries only.
package fat

import (
	"encoding/binary"

	"ember/emberos/kerror"
)

// EndOfChain is the normalized end-of-cluster-chain sentinel.
const EndOfChain uint32 = 0x0fffffff

const directoryEntrySize = 32

// BPB is the BIOS parameter block, the first sector of the volume.
type BPB struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	TotalSectors32      uint32
	FATSize32           uint32
	RootCluster         uint32
}

func decodeBPB(image []byte) (BPB, error) {
	if len(image) < 512 {
		return BPB{}, kerror.InvalidFormat
	}
	le := binary.LittleEndian
	b := BPB{
		BytesPerSector:      le.Uint16(image[11:]),
		SectorsPerCluster:   image[13],
		ReservedSectorCount: le.Uint16(image[14:]),
		NumFATs:             image[16],
		TotalSectors32:      le.Uint32(image[32:]),
		FATSize32:           le.Uint32(image[36:]),
		RootCluster:         le.Uint32(image[44:]),
	}
	if b.BytesPerSector == 0 || b.SectorsPerCluster == 0 || b.NumFATs == 0 {
		return BPB{}, kerror.InvalidFormat
	}
	return b, nil
}

// Volume is a mounted FAT32 image.
type Volume struct {
	image []byte
	bpb   BPB
}

// Mount parses the BPB and returns a read-only volume over the image.
func Mount(image []byte) (*Volume, error) {
	bpb, err := decodeBPB(image)
	if err != nil {
		return nil, err
	}
	return &Volume{image: image, bpb: bpb}, nil
}

// BPB returns the decoded parameter block.
func (v *Volume) BPB() BPB { return v.bpb }

// BytesPerCluster is the cluster size in bytes.
func (v *Volume) BytesPerCluster() uint32 {
	return uint32(v.bpb.BytesPerSector) * uint32(v.bpb.SectorsPerCluster)
}

// dataStartSector is the first sector of the cluster data area.
func (v *Volume) dataStartSector() uint32 {
	return uint32(v.bpb.ReservedSectorCount) + uint32(v.bpb.NumFATs)*v.bpb.FATSize32
}

// ClusterBytes returns the data of one cluster. Cluster numbering starts
// at 2.
func (v *Volume) ClusterBytes(cluster uint32) []byte {
	sector := v.dataStartSector() + (cluster-2)*uint32(v.bpb.SectorsPerCluster)
	off := uint64(sector) * uint64(v.bpb.BytesPerSector)
	return v.image[off : off+uint64(v.BytesPerCluster())]
}

// NextCluster reads the FAT entry for cluster, masking to 28 bits. Any
// value at or beyond 0x0FFFFFF8 is reported as EndOfChain.
func (v *Volume) NextCluster(cluster uint32) uint32 {
	fatOff := uint64(v.bpb.ReservedSectorCount)*uint64(v.bpb.BytesPerSector) +
		uint64(cluster)*4
	next := binary.LittleEndian.Uint32(v.image[fatOff:]) & 0x0fffffff
	if next >= 0x0ffffff8 {
		return EndOfChain
	}
	return next
}
