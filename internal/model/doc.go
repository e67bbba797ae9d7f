// Package model builds the canonical semantic records of a template bundle:
// Metadata from metadata.json, Pipeline from pipeline.yaml and Wiki from
// wiki.MD. Builders turn missing or malformed structure into diagnostics and
// keep whatever they could extract, so rules can still run on a partially
// broken file.
package model
