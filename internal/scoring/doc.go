// Package scoring turns analysis results and observed platform metrics into
// bounded viral scores.
//
// The pre-publish score blends hook strength, the combined FATE profile, and
// segment clarity into a [0,100] estimate available before a post goes live.
// The post-publish score compares one checkback's metrics against the
// platform baseline and the account's follower count, discounted by time
// decay, and places the result within the account's own score history as an
// ascending-rank percentile.
package scoring
