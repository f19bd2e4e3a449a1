// Package export provides serialization of pore networks to JSON, VTK and CSV.
//
// # Overview
//
// This package enables persistence and interchange of networks together with
// their per-pore and per-throat data. The formats serve different purposes:
//
//   - JSON: lossless round-trip of the full network (conns, coords, labels,
//     props). Re-import with [ReadJSON] or [ImportJSON].
//   - VTK: legacy PolyData for visualization in ParaView and similar tools.
//     Write-only.
//   - CSV: flat property tables for spreadsheets and plotting scripts.
//     Write-only.
//
// # JSON Format
//
// The format is a single object with pore count, connectivity and optional
// data sections:
//
//	{
//	  "pores": 4,
//	  "conns": [[0, 1], [1, 2], [2, 3]],
//	  "coords": [[0.5, 0.5, 0.5], ...],
//	  "pore_labels": {"left": [0, 1]},
//	  "throat_labels": {"trimmed": [2]},
//	  "pore_props": {"diameter": [1e-5, 2e-5, 1.5e-5, 1e-5]},
//	  "throat_props": {"length": [1e-4, 1e-4, 1e-4]}
//	}
//
// Labels are stored as sorted index lists, props as dense arrays whose length
// matches the pore or throat count. Property values must be finite: NaN and
// infinities are not representable in JSON and cause [WriteJSON] to fail.
//
// # Import
//
// Use [ImportJSON] to read a network from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	net, err := export.ImportJSON("network.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the structure through the network constructor and
// setters, so malformed conns, out-of-range label indices and wrong-length
// prop arrays are rejected with context about the offending entry.
//
// # Export
//
// Use [ExportJSON], [ExportVTK] or the CSV writers to write to a file, or the
// corresponding Write functions for any io.Writer:
//
//	err := export.ExportJSON(net, "network.json")
//
// All writers emit labels and props in sorted name order, so output for a
// given network is deterministic.
//
// # Concurrency
//
// All functions in this package are safe to call concurrently with other
// readers of the same network, but not with concurrent modifications.
// [ReadJSON] and [ImportJSON] return independent networks that can be
// modified freely after import.
package export
