package schema

// MergedAttribution is the flattened view of a composition's attribution
// entries, optionally folded together with the attribution of the
// collections it belongs to. Display and indexing read this view instead
// of walking the raw entries.
type MergedAttribution struct {
	Composer string
	Dates    Dates
	Status   AttributionStatus
	Catalog  []CatalogEntry
	Notes    []string
}

func mergeDates(base *Dates, overlay Dates) {
	if base.Composed == 0 {
		base.Composed = overlay.Composed
	}
	if base.Published == 0 {
		base.Published = overlay.Published
	}
	if base.Premiered == 0 {
		base.Premiered = overlay.Premiered
	}
	if base.Revised == 0 {
		base.Revised = overlay.Revised
	}
}

// MergeAttribution flattens attribution entries in order. The first entry
// decides status and composer; later entries fill missing dates and append
// catalog references and notes.
func MergeAttribution(entries []AttributionEntry) MergedAttribution {
	var merged MergedAttribution

	if len(entries) > 0 {
		merged.Status = entries[0].Status
	}

	for _, e := range entries {
		if merged.Composer == "" {
			merged.Composer = e.Composer
		}
		if e.Dates != nil {
			mergeDates(&merged.Dates, *e.Dates)
		}
		merged.Catalog = append(merged.Catalog, e.Catalog...)
		if e.Note != "" {
			merged.Notes = append(merged.Notes, e.Note)
		}
	}

	return merged
}

// MergeWithCollections folds collection-level attribution into the
// composition's own. Collection catalogs come after the composition's so
// a work's own references stay primary.
func MergeWithCollections(entries []AttributionEntry, collections []Collection) MergedAttribution {
	merged := MergeAttribution(entries)

	for _, coll := range collections {
		collMerged := MergeAttribution(coll.Attribution)
		if merged.Composer == "" {
			merged.Composer = collMerged.Composer
		}
		if merged.Composer == "" {
			merged.Composer = coll.Composer
		}
		mergeDates(&merged.Dates, collMerged.Dates)
		merged.Catalog = append(merged.Catalog, collMerged.Catalog...)
	}

	return merged
}
