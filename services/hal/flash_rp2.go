//go:build rp2040

package hal

import (
	"machine"

	"costume-go/errcode"
	"costume-go/link"
	"costume-go/services/config"
)

// Slot header: magic, little-endian length, CRC-8 of the data.
const (
	slotMagic  = 0xC5
	slotHeader = 4
)

// FlashStore keeps one blob per erase block in the flash region after the
// program image. Keys are assigned slots in the order given.
type FlashStore struct {
	keys []string
	buf  []byte
}

func NewFlashStore(keys ...string) *FlashStore {
	return &FlashStore{keys: keys}
}

func (s *FlashStore) slot(key string) (int64, error) {
	for i, k := range s.keys {
		if k == key {
			if int64(i+1)*machine.Flash.EraseBlockSize() > machine.Flash.Size() {
				break
			}
			return int64(i), nil
		}
	}
	return 0, errcode.New(errcode.NotFound, "flash store", "no slot for "+key)
}

func (s *FlashStore) Load(key string) ([]byte, error) {
	i, err := s.slot(key)
	if err != nil {
		return nil, err
	}
	off := i * machine.Flash.EraseBlockSize()
	var hdr [slotHeader]byte
	if _, err := machine.Flash.ReadAt(hdr[:], off); err != nil {
		return nil, err
	}
	n := int64(hdr[1]) | int64(hdr[2])<<8
	if hdr[0] != slotMagic || n > machine.Flash.EraseBlockSize()-slotHeader {
		return nil, config.ErrNotStored
	}
	data := make([]byte, n)
	if _, err := machine.Flash.ReadAt(data, off+slotHeader); err != nil {
		return nil, err
	}
	if link.Checksum(data) != hdr[3] {
		return nil, errcode.New(errcode.InvalidConfig, "flash store", "checksum mismatch for "+key)
	}
	return data, nil
}

func (s *FlashStore) Save(key string, data []byte) error {
	i, err := s.slot(key)
	if err != nil {
		return err
	}
	block := machine.Flash.EraseBlockSize()
	if int64(len(data)) > block-slotHeader || len(data) > 0xFFFF {
		return errcode.New(errcode.InvalidPayload, "flash store", "blob too large for "+key)
	}
	// Pad to whole write blocks with the erased value.
	wb := machine.Flash.WriteBlockSize()
	total := (int64(slotHeader+len(data)) + wb - 1) / wb * wb
	s.buf = append(s.buf[:0], slotMagic, byte(len(data)), byte(len(data)>>8), link.Checksum(data))
	s.buf = append(s.buf, data...)
	for int64(len(s.buf)) < total {
		s.buf = append(s.buf, 0xFF)
	}
	if err := machine.Flash.EraseBlocks(i, 1); err != nil {
		return err
	}
	_, err = machine.Flash.WriteAt(s.buf, i*block)
	return err
}
