// Package category copies product categories into the store taxonomy.
package category

import (
	"StoreImport/internal/store"
	"StoreImport/pkg/logging"
)

type Reconciler struct {
	terms  store.TermStore
	source string
	target string
}

// NewReconciler maps terms of the source taxonomy into the target taxonomy.
func NewReconciler(terms store.TermStore, sourceTaxonomy, targetTaxonomy string) *Reconciler {
	return &Reconciler{terms: terms, source: sourceTaxonomy, target: targetTaxonomy}
}

// Reconcile returns the target term id for term, creating it and its missing
// ancestors. Terms are matched by name only, so equally named source terms share
// one target term. 0 means no term; lookup and creation failures are not errors.
// A parent chain that loops back is cut where it repeats.
func (r *Reconciler) Reconcile(term *store.Term) int64 {
	return r.reconcile(term, make(map[int64]bool))
}

func (r *Reconciler) reconcile(term *store.Term, visited map[int64]bool) int64 {
	logger := logging.GetLogger()

	if term == nil || term.Name == "" {
		return 0
	}
	if term.ID > 0 {
		visited[term.ID] = true
	}

	existing, err := r.terms.FindTermByName(term.Name, r.target)
	if err != nil {
		logger.Errorf("Reconcile:>lookup %q in %s: %v", term.Name, r.target, err)
		return 0
	}
	if existing != nil {
		return existing.ID
	}

	var parentID int64
	if term.Parent > 0 {
		parent, err := r.terms.GetTerm(term.Parent, r.source)
		switch {
		case err != nil:
			logger.Errorf("Reconcile:>parent %d of %q: %v", term.Parent, term.Name, err)
		case parent == nil:
		case visited[parent.ID]:
			logger.Warnf("Reconcile:>parent loop at %d above %q, created without parent", parent.ID, term.Name)
		default:
			parentID = r.reconcile(parent, visited)
		}
	}

	id, err := r.terms.CreateTerm(term.Name, r.target, term.Slug, parentID)
	if err != nil {
		logger.Debugf("Reconcile:>term %q not created: %v", term.Name, err)
		return 0
	}
	logger.Debugf("Reconcile:>term %q created with id %d, parent %d", term.Name, id, parentID)
	return id
}

// ReconcileAll reconciles terms in order and drops the ones that yield no term.
func (r *Reconciler) ReconcileAll(terms []*store.Term) []int64 {
	var ids []int64
	for _, t := range terms {
		if id := r.Reconcile(t); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
