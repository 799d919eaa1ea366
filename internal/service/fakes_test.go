package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

// memNoteRepo keeps notes in memory and counts every write.
type memNoteRepo struct {
	domain.NoteRepository
	mu     sync.Mutex
	notes  map[string]*domain.Note
	seq    int
	writes int
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: map[string]*domain.Note{}}
}

// seed adds notes for uid with orders continuing after its existing notes.
func (r *memNoteRepo) seed(uid int64, tagID string, titles ...string) []string {
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		count, _ := r.CountByOwner(context.Background(), uid)
		n, _ := r.Create(context.Background(), &domain.Note{UID: uid, TagID: tagID, Title: title, Position: domain.Position{Order: count}})
		ids = append(ids, n.ID)
	}
	r.writes = 0
	return ids
}

func (r *memNoteRepo) Create(_ context.Context, n *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := *n
	c.ID = "n" + strconv.Itoa(r.seq)
	r.notes[c.ID] = &c
	r.writes++
	out := c
	return &out, nil
}

func (r *memNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return nil, domain.NotFound("memNoteRepo.FindByID", "note "+id)
	}
	c := *n
	return &c, nil
}

func (r *memNoteRepo) owned(uid int64) []*domain.Note {
	var out []*domain.Note
	for _, n := range r.notes {
		if n.UID == uid {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position.Order < out[j].Position.Order })
	return out
}

func (r *memNoteRepo) CountByOwner(_ context.Context, uid int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owned(uid)), nil
}

func (r *memNoteRepo) ListCount(ctx context.Context, uid int64) (int64, error) {
	n, err := r.CountByOwner(ctx, uid)
	return int64(n), err
}

func (r *memNoteRepo) List(_ context.Context, uid int64, _, _ int) ([]*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Note
	for _, n := range r.owned(uid) {
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

func (r *memNoteRepo) Update(_ context.Context, n *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.notes[n.ID]
	if !ok || cur.UID != n.UID {
		return nil, domain.NotFound("memNoteRepo.Update", "note "+n.ID)
	}
	cur.Title, cur.Content, cur.TagID = n.Title, n.Content, n.TagID
	r.writes++
	c := *cur
	return &c, nil
}

func (r *memNoteRepo) Delete(_ context.Context, uid int64, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.UID != uid {
		return domain.NotFound("memNoteRepo.Delete", "note "+id)
	}
	delete(r.notes, id)
	for _, o := range r.owned(uid) {
		if o.Position.Order > n.Position.Order {
			o.Position.Order--
		}
	}
	r.writes++
	return nil
}

func (r *memNoteRepo) DeleteByTag(_ context.Context, uid int64, tagID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, note := range r.notes {
		if note.UID == uid && note.TagID == tagID {
			delete(r.notes, id)
			n++
		}
	}
	for i, o := range r.owned(uid) {
		o.Position.Order = i
	}
	r.writes++
	return n, nil
}

func (r *memNoteRepo) UpdateCoordinates(_ context.Context, uid int64, id string, x, y float64, movedAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.UID != uid {
		return domain.NotFound("memNoteRepo.UpdateCoordinates", "note "+id)
	}
	n.Position.X, n.Position.Y, n.Position.LastMovedAt = x, y, movedAt
	r.writes++
	return nil
}

func (r *memNoteRepo) ApplyReorder(_ context.Context, uid int64, id string, plan domain.ShiftPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	moved, ok := r.notes[id]
	if !ok || moved.UID != uid {
		return domain.NotFound("memNoteRepo.ApplyReorder", "note "+id)
	}
	if moved.Position.Order != plan.Old {
		return domain.Validation("memNoteRepo.ApplyReorder", "stale")
	}
	for _, n := range r.owned(uid) {
		if n.ID != id {
			n.Position.Order = plan.Shift(n.Position.Order)
		}
	}
	moved.Position.Order = plan.Target
	r.writes++
	return nil
}

// titles returns the titles of uid by order.
func (r *memNoteRepo) titles(uid int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.owned(uid) {
		out = append(out, n.Title)
	}
	return out
}

func (r *memNoteRepo) dense(uid int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.owned(uid) {
		if n.Position.Order != i {
			return false
		}
	}
	return true
}

// memTagRepo 内存标签仓储
type memTagRepo struct {
	domain.TagRepository
	mu   sync.Mutex
	tags map[string]*domain.Tag
	seq  int
}

func newMemTagRepo(tags ...*domain.Tag) *memTagRepo {
	r := &memTagRepo{tags: map[string]*domain.Tag{}}
	for _, t := range tags {
		r.tags[t.ID] = t
	}
	return r
}

func (r *memTagRepo) Create(_ context.Context, t *domain.Tag) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := *t
	c.ID = "t" + strconv.Itoa(r.seq)
	r.tags[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memTagRepo) FindByID(_ context.Context, id string) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[id]
	if !ok {
		return nil, domain.NotFound("memTagRepo.FindByID", "tag "+id)
	}
	c := *t
	return &c, nil
}

func (r *memTagRepo) FindByCode(_ context.Context, uid int64, code string) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		if t.Code == code && t.VisibleTo(uid) {
			c := *t
			return &c, nil
		}
	}
	return nil, domain.NotFound("memTagRepo.FindByCode", "tag "+code)
}

func (r *memTagRepo) ListVisible(_ context.Context, uid int64) ([]*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Tag
	for _, t := range r.tags {
		if t.VisibleTo(uid) {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UID != out[j].UID {
			return out[i].UID < out[j].UID
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *memTagRepo) Update(_ context.Context, t *domain.Tag) (*domain.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *t
	r.tags[t.ID] = &c
	out := c
	return &out, nil
}

func (r *memTagRepo) Delete(_ context.Context, uid int64, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tags[id]
	if !ok || t.UID != uid {
		return domain.NotFound("memTagRepo.Delete", "tag "+id)
	}
	delete(r.tags, id)
	return nil
}

func (r *memTagRepo) EnsureSystem(_ context.Context, tags []*domain.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tags {
		exists := false
		for _, cur := range r.tags {
			if cur.IsSystem() && cur.Code == t.Code {
				exists = true
			}
		}
		if !exists {
			r.seq++
			c := *t
			c.ID = "sys" + strconv.Itoa(r.seq)
			r.tags[c.ID] = &c
		}
	}
	return nil
}

// gatedTagRepo blocks the first FindByID of gateID until release is closed.
type gatedTagRepo struct {
	*memTagRepo
	gateID  string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedTagRepo(inner *memTagRepo, gateID string) *gatedTagRepo {
	return &gatedTagRepo{
		memTagRepo: inner,
		gateID:     gateID,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (r *gatedTagRepo) FindByID(ctx context.Context, id string) (*domain.Tag, error) {
	if id == r.gateID {
		r.once.Do(func() {
			close(r.entered)
			<-r.release
		})
	}
	return r.memTagRepo.FindByID(ctx, id)
}
