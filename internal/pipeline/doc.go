// Package pipeline runs images through the coloring-page transform stages.
//
// Each image becomes a model.PageJob that travels through an ordered list of
// Steps: decode, optional trim, optional edge detection, binarize, thicken,
// optional trim, fit, export and, when a ledger is configured, record. The
// position of the trim stage is configuration, not code: TransformSteps
// builds the list from a config.Transform.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Stages can be added or reordered without touching the runner
// 2. Error handling and logging are uniform across stages
// 3. Cancellation is checked between stages
// 4. Generation plugs in as just another step in front of decode
//
// BatchProcessor runs many jobs concurrently with errgroup. A failing image
// is recorded in the shared model.RunSummary and never stops the batch.
package pipeline
