package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the storage layer. The record shapes are
// small enough that generated code would be more trouble than it is worth.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// SupportRecordMUS serializes SupportRecords.
var SupportRecordMUS = supportRecordMUS{}

type supportRecordMUS struct{}

func (s supportRecordMUS) Marshal(v SupportRecord, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.URL, bs[n:])
	n += varint.PositiveInt.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	n += varint.Uint64.Marshal(uint64(v.TitleHash), bs[n:])
	n += varint.PositiveInt.Marshal(len(v.Metadata), bs[n:])
	for k, val := range v.Metadata {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(val, bs[n:])
	}
	n += varint.Uint64.Marshal(v.Seq, bs[n:])
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (s supportRecordMUS) Unmarshal(bs []byte) (v SupportRecord, n int, err error) {
	var n1 int

	id, n1, err := varint.Uint64.Unmarshal(bs)
	n += n1
	if err != nil {
		return
	}
	v.Id = ID(id)

	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var vecLen int
	vecLen, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if vecLen > 0 {
		v.Vector = make([]float32, vecLen)
		for i := 0; i < vecLen; i++ {
			v.Vector[i], n1, err = varint.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	var titleHash uint64
	titleHash, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TitleHash = ID(titleHash)

	var metaLen int
	metaLen, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if metaLen > 0 {
		v.Metadata = make(map[string]string, metaLen)
		for i := 0; i < metaLen; i++ {
			var k, val string
			k, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			val, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			v.Metadata[k] = val
		}
	}

	v.Seq, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = time.UnixMicro(micros).UTC()

	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()

	return
}

func (s supportRecordMUS) Size(v SupportRecord) (size int) {
	size = varint.Uint64.Size(uint64(v.Id))
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.URL)
	size += varint.PositiveInt.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += varint.Float32.Size(f)
	}
	size += varint.Uint64.Size(uint64(v.TitleHash))
	size += varint.PositiveInt.Size(len(v.Metadata))
	for k, val := range v.Metadata {
		size += ord.String.Size(k)
		size += ord.String.Size(val)
	}
	size += varint.Uint64.Size(v.Seq)
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return size
}
