package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/model"
	"github.com/nao1215/coloringbook/internal/raster"
)

// CollectInputs returns one job per decodable image in dir, sorted by file
// name. Hidden files and in-flight temporary files are ignored.
//
// Inputs that would export to the same page name (cat.png, cat.PNG and
// cat.jpg all become cat_coloring.png) are not run: the first name in sort
// order keeps the page and the others come back in skipped, already failed
// at the collect stage.
func CollectInputs(dir string) (jobs, skipped []*model.PageJob, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || export.IsTempName(e.Name()) || !raster.IsSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	// Compared case-insensitively so the result does not depend on the
	// file system the pool lives on.
	owners := make(map[string]string, len(names))
	jobs = make([]*model.PageJob, 0, len(names))
	for _, name := range names {
		job := model.NewPageJob(name, filepath.Join(dir, name))
		page := export.OutputName(name)
		key := strings.ToLower(page)
		if owner, taken := owners[key]; taken {
			job.Status = model.StatusSkipped
			job.FailedStep = StepCollect
			job.Err = fmt.Errorf("%w: %s already becomes %s", ErrDuplicateOutput, owner, page)
			skipped = append(skipped, job)
			continue
		}
		owners[key] = name
		jobs = append(jobs, job)
	}
	return jobs, skipped, nil
}

// GenerationJobs returns count jobs for prompt, numbered from 1.
func GenerationJobs(prompt string, count int, name func(index int) string) []*model.PageJob {
	jobs := make([]*model.PageJob, count)
	for i := range jobs {
		idx := i + 1
		jobs[i] = &model.PageJob{
			Name:   name(idx),
			Prompt: prompt,
			Index:  idx,
			Status: model.StatusPending,
		}
	}
	return jobs
}
