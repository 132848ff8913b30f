// Package demo runs the fixed create/read/update/delete sequence against the
// people collection.
//
// The ten steps run strictly in order, each finishing before the next
// starts. No step recovers from a failure: the first error stops the run
// and is returned with the step number and title attached.
//
//  1. Insert one person (John Doe) and remember its id
//  2. Insert the seed batch in one operation
//  3. Find everyone named Mary
//  4. Find one person who likes burritos
//  5. Find the step 1 person by id
//  6. Load, append "hamburger", save
//  7. Atomically set Ali's age to 20, returning the updated document
//  8. Delete the step 1 person by id, returning what was deleted
//  9. Delete everyone named Mary, returning the count
//  10. Burrito lovers, sorted by name, first two, without age
package demo
