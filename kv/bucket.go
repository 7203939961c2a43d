// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "sync"

// Bucket provides logical bucket for kv store.
type Bucket string

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], g.b...), key...)

	return g.src.Get(buf.k)
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], g.b...), key...)

	return g.src.Has(buf.k)
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], p.b...), key...)

	return p.src.Put(buf.k, val)
}

func (p *bucketPutter) Delete(key []byte) error {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], p.b...), key...)

	return p.src.Delete(buf.k)
}

func (p *bucketPutter) NewBatch() Batch {
	return &bucketBatch{p.b, p.src.NewBatch()}
}

type bucketBatch struct {
	b   Bucket
	src Batch
}

func (b *bucketBatch) Put(key, val []byte) error {
	return (&bucketPutter{b.b, b.src}).Put(key, val)
}

func (b *bucketBatch) Delete(key []byte) error {
	return (&bucketPutter{b.b, b.src}).Delete(key)
}

func (b *bucketBatch) NewBatch() Batch { return b.src.NewBatch() }
func (b *bucketBatch) Len() int        { return b.src.Len() }
func (b *bucketBatch) Write() error    { return b.src.Write() }

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewGetPutter creates a bucket get-putter from the source get-putter.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{
		b.NewGetter(src),
		b.NewPutter(src),
	}
}

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() interface{} {
		return &buf{}
	},
}
