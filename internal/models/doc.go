// Package models defines the core domain models for Tripmate.
//
// # Entities
//
// Five entity kinds are mirrored from the remote store:
//   - Profile: a trip member (read-only reference data)
//   - Measurement: one member's body measurements for garment sizing
//   - Store: a candidate shop, optionally assigned to one trip day
//   - Item: a wish-list entry, requestable by zero or more members
//   - Expense: a ledger entry, decoupled from the Store directory
//
// # Design Principles
//
//  1. **Remote authority**: identifiers and created_at timestamps are issued
//     by the remote store; the client never invents durable state.
//  2. **Avoid circular references**: relationships use ID strings, with
//     joined display fields (store name, profile nickname) carried alongside
//     where the remote read returns them.
//  3. **Explicit absence**: nullable columns are pointer fields. An empty
//     string submitted where a number or foreign key is expected is a form
//     artifact, not a value; drafts normalize it away before transmission.
//
// Form input arrives as raw strings (see the *Draft types); conversion into
// an entity validates and normalizes in one step so that no half-parsed
// value ever reaches a gateway call.
package models
