// Package planner decides where separated stems land on the timeline.
//
// Given the source clip's timing, the requested stem count and the lanes already
// in use, Plan returns one PlacedClip per stem file that actually exists:
//   - lanes start right above the highest occupied lane (lane 1 on an empty timeline)
//   - the stem at role position i always gets firstLane+i, even if earlier roles were skipped
//   - every placed clip copies the source's trimmed start and end so the stems stay in sync
//
// The planner never runs the separator, it only reads what the separator left on disk.
package planner
