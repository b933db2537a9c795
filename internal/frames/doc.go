// Package frames turns sampled video frames into the annotated frame-event
// timeline: shot type and face observations from the external vision
// collaborator, plus locally computed brightness, motion, clutter, and
// pattern-interrupt flags. When the collaborator is down the extractor
// degrades to pixel heuristics and marks the vision fields unknown.
package frames
