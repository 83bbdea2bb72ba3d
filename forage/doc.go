// Package forage implements the worker role: carry at most one unit of food
// from the nearest known pile back home.
package forage
