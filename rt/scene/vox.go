package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const VOXMagicNumber = "VOX "

var ErrNotVox = errors.New("scene: not a valid VOX file")

type Voxel struct {
	X, Y, Z, ColorIndex byte
}

type VoxModel struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

type VoxPalette [256][4]byte // RGBA

type VoxFile struct {
	Version int
	Models  []VoxModel
	Palette VoxPalette
}

// ParseVox reads a MagicaVoxel file. Only SIZE, XYZI, RGBA and PACK chunks
// are used; everything else is skipped.
func ParseVox(r io.Reader) (*VoxFile, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVox, err)
	}
	if string(magic[:]) != VOXMagicNumber {
		return nil, ErrNotVox
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}

	vf := &VoxFile{
		Version: int(version),
		Palette: defaultPalette(),
	}
	// next model slot filled by a SIZE chunk
	next := 0

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		var chunkSize, childrenSize int32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &childrenSize); err != nil {
			return nil, err
		}
		if chunkSize < 0 {
			return nil, fmt.Errorf("%w: chunk %q has negative size", ErrNotVox, chunkID[:])
		}

		chunkData := make([]byte, chunkSize)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return nil, err
		}

		switch string(chunkID[:]) {
		case "MAIN":
			// children follow inline
			continue
		case "PACK":
			if len(chunkData) < 4 {
				return nil, fmt.Errorf("%w: PACK chunk too small", ErrNotVox)
			}
			if n := binary.LittleEndian.Uint32(chunkData[:4]); n > 0 {
				vf.Models = make([]VoxModel, n)
			}
		case "SIZE":
			if len(chunkData) < 12 {
				return nil, fmt.Errorf("%w: SIZE chunk too small", ErrNotVox)
			}
			if next >= len(vf.Models) {
				vf.Models = append(vf.Models, VoxModel{})
			}
			m := &vf.Models[next]
			next++
			m.SizeX = binary.LittleEndian.Uint32(chunkData[0:4])
			m.SizeY = binary.LittleEndian.Uint32(chunkData[4:8])
			m.SizeZ = binary.LittleEndian.Uint32(chunkData[8:12])
		case "XYZI":
			if next == 0 {
				return nil, fmt.Errorf("%w: XYZI before SIZE", ErrNotVox)
			}
			if len(chunkData) < 4 {
				return nil, fmt.Errorf("%w: XYZI chunk too small", ErrNotVox)
			}
			m := &vf.Models[next-1]
			n := int(binary.LittleEndian.Uint32(chunkData[:4]))
			if 4+n*4 > len(chunkData) {
				return nil, fmt.Errorf("%w: XYZI chunk data overflow", ErrNotVox)
			}
			m.Voxels = make([]Voxel, n)
			for i := range m.Voxels {
				off := 4 + i*4
				m.Voxels[i] = Voxel{
					X:          chunkData[off],
					Y:          chunkData[off+1],
					Z:          chunkData[off+2],
					ColorIndex: chunkData[off+3],
				}
			}
		case "RGBA":
			// entry i of the chunk is colour index i+1
			for i := 0; i < 255; i++ {
				off := i * 4
				if off+3 >= len(chunkData) {
					break
				}
				copy(vf.Palette[i+1][:], chunkData[off:off+4])
			}
		}
	}

	return vf, nil
}

func defaultPalette() VoxPalette {
	var palette VoxPalette
	for i := range palette {
		palette[i] = [4]uint8{255, 255, 255, 255}
	}
	return palette
}
