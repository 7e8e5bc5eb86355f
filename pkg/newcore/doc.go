// Package newcore describes the HTTP contract of the new-core borrower
// onboarding service: paths, header names, payloads and the signature scheme.
//
// The registration composer speaks this contract as a client and the fake
// backend in internal/mockcore serves it, so both sides stay in lockstep.
package newcore
