package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/objectives/internal/domain"
)

// Validate checks the whole document and returns every problem found.
func Validate(f *File) []error {
	var errs []error
	if len(f.Objectives) == 0 {
		return append(errs, fmt.Errorf("objectives: at least one objective is required"))
	}

	defaultStatus := ""
	if f.Defaults != nil {
		defaultStatus = strings.TrimSpace(f.Defaults.Status)
	}

	refs := make(map[string]bool, len(f.Objectives))
	for i, it := range f.Objectives {
		prefix := fmt.Sprintf("objectives[%d]", i)
		if it.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[it.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, it.Ref))
		} else {
			refs[it.Ref] = true
		}

		if strings.TrimSpace(it.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if strings.TrimSpace(it.Status) == "" && defaultStatus == "" {
			errs = append(errs, fmt.Errorf("%s.status is required (or set defaults.status)", prefix))
		}
		errs = append(errs, validateDate(prefix+".start_date", it.StartDate)...)
		errs = append(errs, validateDate(prefix+".end_date", it.EndDate)...)

		if it.ParentRef != nil && it.ParentID != nil {
			errs = append(errs, fmt.Errorf("%s: parent_ref and parent_id are mutually exclusive", prefix))
		}
		if it.ParentID != nil && *it.ParentID <= 0 {
			errs = append(errs, fmt.Errorf("%s.parent_id must be a positive id", prefix))
		}
	}

	for i, it := range f.Objectives {
		if it.ParentRef == nil {
			continue
		}
		prefix := fmt.Sprintf("objectives[%d]", i)
		switch {
		case *it.ParentRef == it.Ref:
			errs = append(errs, fmt.Errorf("%s.parent_ref: objective %q cannot be its own parent", prefix, it.Ref))
		case !refs[*it.ParentRef]:
			errs = append(errs, fmt.Errorf("%s.parent_ref: unknown ref %q", prefix, *it.ParentRef))
		}
	}

	if len(errs) == 0 {
		if _, err := Plan(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateDate(field, value string) []error {
	if strings.TrimSpace(value) == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if _, err := domain.ParseDate(value); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)}
	}
	return nil
}
