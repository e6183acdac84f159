// Package forms holds the built-in template registry, the Record model, and
// record validation.
//
// A Record preserves field order (slice position), which in turn fixes the
// line order of the serialized payload. The registry is fixed at compile
// time; the pipeline consumes only templateId → label plus the validation
// rules, so swapping in an external registry later touches nothing else.
package forms
