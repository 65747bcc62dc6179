// Package schema declares the task schemas that drive form rendering,
// validation and model dispatch. A TaskSchema lists its features in the exact
// order the backing model expects its input vector; every downstream stage
// preserves that order. Schemas are static configuration: they are loaded
// from YAML/JSON documents (see LoadFS) or the embedded defaults (see
// Default) and are never mutated afterwards.
package schema
