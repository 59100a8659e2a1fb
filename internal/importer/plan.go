package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/objectives/internal/domain"
)

// Step is one objective to create. Input.ParentID is set only for parents
// that already exist; ParentRef names a parent created by an earlier step.
type Step struct {
	Ref       string
	ParentRef string
	Input     domain.ObjectiveInput
}

// Plan orders the items so every parent precedes its children, keeping file
// order among siblings. Call Validate first; Plan reports only ref cycles
// and dates it cannot parse.
func Plan(f *File) ([]Step, error) {
	defaultStatus := ""
	if f.Defaults != nil {
		defaultStatus = strings.TrimSpace(f.Defaults.Status)
	}

	children := make(map[string][]int)
	var roots []int
	for i, it := range f.Objectives {
		if it.ParentRef == nil {
			roots = append(roots, i)
			continue
		}
		children[*it.ParentRef] = append(children[*it.ParentRef], i)
	}

	steps := make([]Step, 0, len(f.Objectives))
	queue := roots
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		it := f.Objectives[i]

		step, err := toStep(it, defaultStatus)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
		queue = append(queue, children[it.Ref]...)
	}

	if len(steps) != len(f.Objectives) {
		var stuck []string
		placed := make(map[string]bool, len(steps))
		for _, s := range steps {
			placed[s.Ref] = true
		}
		for _, it := range f.Objectives {
			if !placed[it.Ref] {
				stuck = append(stuck, it.Ref)
			}
		}
		return nil, fmt.Errorf("parent_ref cycle among %s", strings.Join(stuck, ", "))
	}
	return steps, nil
}

func toStep(it Item, defaultStatus string) (Step, error) {
	start, err := domain.ParseDate(it.StartDate)
	if err != nil {
		return Step{}, fmt.Errorf("%s.start_date: %w", it.Ref, err)
	}
	end, err := domain.ParseDate(it.EndDate)
	if err != nil {
		return Step{}, fmt.Errorf("%s.end_date: %w", it.Ref, err)
	}
	status := strings.TrimSpace(it.Status)
	if status == "" {
		status = defaultStatus
	}

	step := Step{
		Ref: it.Ref,
		Input: domain.ObjectiveInput{
			Title:       strings.TrimSpace(it.Title),
			Description: it.Description,
			StartDate:   start,
			EndDate:     end,
			Status:      status,
			ParentID:    it.ParentID,
		},
	}
	if it.ParentRef != nil {
		step.ParentRef = *it.ParentRef
	}
	return step, nil
}
