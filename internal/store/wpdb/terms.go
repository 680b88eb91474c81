package wpdb

import (
	"StoreImport/internal/database/model"
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

func (b *Backend) GetTerm(termID int64, taxonomy string) (*store.Term, error) {
	t, err := model.SelectTermByID(b.db, b.tables, termID, taxonomy)
	if err != nil {
		return nil, errors.Wrapf(err, "failed GetTerm(%d, %s)", termID, taxonomy)
	}
	return toTerm(t), nil
}

// FindTermByName matches the name only, like term_exists.
func (b *Backend) FindTermByName(name, taxonomy string) (*store.Term, error) {
	t, err := model.SelectTermByName(b.db, b.tables, name, taxonomy)
	if err != nil {
		return nil, errors.Wrapf(err, "failed FindTermByName(%s, %s)", name, taxonomy)
	}
	return toTerm(t), nil
}

// CreateTerm fails with store.ErrTermExists when the slug is taken in the taxonomy.
// An empty slug is derived from the name.
func (b *Backend) CreateTerm(name, taxonomy, slug string, parent int64) (int64, error) {
	logger := logging.GetLogger()
	logger.Debugf("Start CreateTerm(%s, %s)", name, taxonomy)
	defer logger.Debugf("End CreateTerm(%s, %s)", name, taxonomy)

	if strings.TrimSpace(name) == "" {
		return 0, errors.New("term name is empty")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	existing, err := model.SelectTermBySlug(b.db, b.tables, slug, taxonomy)
	if err != nil {
		return 0, errors.Wrapf(err, "failed CreateTerm(%s, %s)", name, taxonomy)
	}
	if existing != nil {
		return 0, errors.Wrapf(store.ErrTermExists, "slug %q in %s", slug, taxonomy)
	}

	t := &model.Term{Name: name, Slug: slug, Taxonomy: taxonomy, Parent: parent}
	if err := t.Insert(b.db, b.tables); err != nil {
		return 0, errors.Wrapf(err, "failed CreateTerm(%s, %s)", name, taxonomy)
	}
	return t.ID, nil
}

func (b *Backend) FindOrCreateTerm(name, taxonomy string, parent int64) (int64, error) {
	t, err := b.FindTermByName(name, taxonomy)
	if err != nil {
		return 0, err
	}
	if t != nil {
		return t.ID, nil
	}
	return b.CreateTerm(name, taxonomy, "", parent)
}

// AttachTerms replaces the record's terms in taxonomy with termIDs.
func (b *Backend) AttachTerms(id int64, termIDs []int64, taxonomy string) error {
	ttIDs := make([]int64, 0, len(termIDs))
	for _, termID := range termIDs {
		t, err := model.SelectTermByID(b.db, b.tables, termID, taxonomy)
		if err != nil {
			return errors.Wrapf(err, "failed AttachTerms(%d)", id)
		}
		if t == nil {
			return errors.Wrapf(store.ErrNotFound, "term %d in %s", termID, taxonomy)
		}
		ttIDs = append(ttIDs, t.TaxonomyID)
	}
	if err := model.ReplaceObjectTerms(b.db, b.tables, id, taxonomy, ttIDs); err != nil {
		return errors.Wrapf(err, "failed AttachTerms(%d)", id)
	}
	return nil
}

func (b *Backend) GetTerms(id int64, taxonomy string) ([]*store.Term, error) {
	rows, err := model.SelectObjectTerms(b.db, b.tables, id, taxonomy)
	if err != nil {
		return nil, errors.Wrapf(err, "failed GetTerms(%d, %s)", id, taxonomy)
	}
	terms := make([]*store.Term, 0, len(rows))
	for _, r := range rows {
		terms = append(terms, toTerm(r))
	}
	return terms, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func toTerm(t *model.Term) *store.Term {
	if t == nil {
		return nil
	}
	return &store.Term{
		ID:         t.ID,
		TaxonomyID: t.TaxonomyID,
		Name:       t.Name,
		Slug:       t.Slug,
		Taxonomy:   t.Taxonomy,
		Parent:     t.Parent,
	}
}
