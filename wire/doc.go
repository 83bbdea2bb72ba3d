// Package wire encodes knowledge snapshots for exchange between ants.
//
// Snapshots use the protobuf wire format, written field by field with
// protowire so no generated code is needed:
//
//	message Snapshot {
//	  uint32 version = 1;   // always 1
//	  uint32 role    = 2;
//	  sint64 age     = 3;
//	  sint64 year    = 4;
//	  sint64 id      = 5;
//	  Grid   grid    = 6;   // absent for gridless snapshots
//	}
//
//	message Grid {
//	  uint32 size                  = 1;
//	  repeated sint64 food         = 2 [packed = true];
//	  repeated bool   traversable  = 3 [packed = true];
//	  repeated sint64 year_viewed  = 4 [packed = true];
//	  repeated sint64 year_visited = 5 [packed = true];
//	}
//
// A missing grid field is the gridless marker; an all-unknown grid is sent
// as a present Grid message. Cells are listed column by column.
//
// Codec adds an LRU cache of decoded snapshots keyed by an xxhash
// fingerprint of the payload, since one offer is usually received by every
// co-located ant.
package wire
