package model

import (
	"StoreImport/pkg/logging"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Term is a terms row joined with its term_taxonomy row.
type Term struct {
	ID         int64  `db:"term_id"`
	Name       string `db:"name"`
	Slug       string `db:"slug"`
	TaxonomyID int64  `db:"term_taxonomy_id"`
	Taxonomy   string `db:"taxonomy"`
	Parent     int64  `db:"parent"`
}

func termSelect(t Tables) string {
	return fmt.Sprintf(`SELECT t.term_id, t.name, t.slug, tt.term_taxonomy_id, tt.taxonomy, tt.parent
FROM %s t JOIN %s tt ON tt.term_id = t.term_id`, t.Terms(), t.TermTaxonomy())
}

func selectTerm(db *sqlx.DB, query string, args ...interface{}) (*Term, error) {
	var terms []*Term
	query = db.Rebind(query)
	if err := db.Select(&terms, query, args...); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT term; query:\n%s%v", query, args)
	}
	if len(terms) == 0 {
		return nil, nil
	}
	return terms[0], nil
}

func SelectTermByID(db *sqlx.DB, t Tables, id int64, taxonomy string) (*Term, error) {
	return selectTerm(db, termSelect(t)+" WHERE t.term_id = ? AND tt.taxonomy = ?", id, taxonomy)
}

func SelectTermByName(db *sqlx.DB, t Tables, name, taxonomy string) (*Term, error) {
	return selectTerm(db, termSelect(t)+" WHERE t.name = ? AND tt.taxonomy = ? ORDER BY t.term_id", name, taxonomy)
}

func SelectTermBySlug(db *sqlx.DB, t Tables, slug, taxonomy string) (*Term, error) {
	return selectTerm(db, termSelect(t)+" WHERE t.slug = ? AND tt.taxonomy = ? ORDER BY t.term_id", slug, taxonomy)
}

// SelectObjectTerms returns the terms of a post in one taxonomy.
func SelectObjectTerms(db *sqlx.DB, t Tables, objectID int64, taxonomy string) ([]*Term, error) {
	var terms []*Term
	query := db.Rebind(termSelect(t) + fmt.Sprintf(`
JOIN %s tr ON tr.term_taxonomy_id = tt.term_taxonomy_id
WHERE tr.object_id = ? AND tt.taxonomy = ? ORDER BY t.name, t.term_id`, t.TermRelationships()))
	if err := db.Select(&terms, query, objectID, taxonomy); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT object terms; query:\n%s(%d, %s)", query, objectID, taxonomy)
	}
	return terms, nil
}

// Insert creates the terms and term_taxonomy rows and sets the ids.
func (term *Term) Insert(db *sqlx.DB, t Tables) error {
	logger := logging.GetLogger()
	logger.Debug("Start Term.Insert")
	defer logger.Debug("End Term.Insert")

	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed db.Beginx")
	}
	query := tx.Rebind(fmt.Sprintf("INSERT INTO %s (name, slug) VALUES (?, ?)", t.Terms()))
	res, err := tx.Exec(query, term.Name, term.Slug)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "failed INSERT term; query:\n%s(%s, %s)", query, term.Name, term.Slug)
	}
	termID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed LastInsertId")
	}

	query = tx.Rebind(fmt.Sprintf("INSERT INTO %s (term_id, taxonomy, description, parent) VALUES (?, ?, ?, ?)", t.TermTaxonomy()))
	res, err = tx.Exec(query, termID, term.Taxonomy, "", term.Parent)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "failed INSERT term_taxonomy; query:\n%s(%d, %s)", query, termID, term.Taxonomy)
	}
	ttID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed LastInsertId")
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed commit term")
	}

	term.ID = termID
	term.TaxonomyID = ttID
	logger.Debugf("Term %q created in %s with id %d", term.Name, term.Taxonomy, term.ID)
	return nil
}

// ReplaceObjectTerms sets the post's terms in the taxonomy of the given term_taxonomy ids.
func ReplaceObjectTerms(db *sqlx.DB, t Tables, objectID int64, taxonomy string, termTaxonomyIDs []int64) error {
	tx, err := db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed db.Beginx")
	}
	del := tx.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE object_id = ? AND term_taxonomy_id IN
(SELECT term_taxonomy_id FROM %s WHERE taxonomy = ?)`, t.TermRelationships(), t.TermTaxonomy()))
	if _, err := tx.Exec(del, objectID, taxonomy); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "failed DELETE term_relationships; query:\n%s(%d, %s)", del, objectID, taxonomy)
	}
	ins := tx.Rebind(fmt.Sprintf("INSERT INTO %s (object_id, term_taxonomy_id) VALUES (?, ?)", t.TermRelationships()))
	seen := make(map[int64]bool)
	for _, ttID := range termTaxonomyIDs {
		if seen[ttID] {
			continue
		}
		seen[ttID] = true
		if _, err := tx.Exec(ins, objectID, ttID); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "failed INSERT term_relationships; query:\n%s(%d, %d)", ins, objectID, ttID)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed commit term_relationships")
	}
	return nil
}
