// Package book assembles a pool of exported coloring pages into a single
// print-ready PDF interior.
//
// Assembly runs in a fixed order and writes nothing until every precondition
// holds:
//  1. validate the request (page count 30..120, paper, DPI, bleed geometry)
//  2. snapshot the page pool once, sorted by file name
//  3. select pages: the first N in order, or a seeded Fisher-Yates shuffle
//  4. compose every page onto the paper canvas, bleed included, in parallel
//  5. write the PDF atomically, then the JSON manifest
//
// A shuffle with seed 0 draws a random seed; the seed actually used is always
// recorded in the manifest so the same book can be rebuilt.
package book
