// Package game is the cardball game aggregate: lineups, the action/result forest,
// the strategy register and the derived game status.
//
// Nothing in this package touches storage or transport. Callers load a Game, apply one
// mutation under exclusive access, and hand it back to the store.
package game
