package catalog

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"
)

// Record encoding: varint headerLen | header(id) | payload(JSON item) | crc32c(header|payload)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errCorruptRecord = errors.New("catalog: corrupt record")

func encodeRecord(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

// decodeRecord returns views into b; callers copy what they keep.
func decodeRecord(b []byte) (header, payload []byte, ok bool) {
	if len(b) < 1+4 {
		return nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || n+int(hlen)+4 > len(b) {
		return nil, nil, false
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return nil, nil, false
	}
	return header, payload, true
}

func encodeItem(it Item) ([]byte, error) {
	payload, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	return encodeRecord([]byte(it.ID), payload), nil
}

func decodeItem(b []byte) (Item, error) {
	header, payload, ok := decodeRecord(b)
	if !ok {
		return Item{}, errCorruptRecord
	}
	var it Item
	if err := json.Unmarshal(payload, &it); err != nil {
		return Item{}, err
	}
	if it.ID != string(header) {
		return Item{}, errCorruptRecord
	}
	return it, nil
}
