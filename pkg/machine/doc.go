// Package machine implements the blueprint-driven machine builder (spec
// §4.6): selecting an origin and interior for a blueprint instance,
// preparing that interior according to blueprint flags, placing its
// features in order with distance/view/personal-space predicates, and
// recursively resolving sub-machines, all behind a point-of-no-return
// snapshot that rolls back the whole attempt on failure.
//
// Item and monster generation are external collaborators (spec §6): this
// package depends only on the Collaborator interface, never on a concrete
// item/monster engine, which is out of scope for the generator core.
package machine
