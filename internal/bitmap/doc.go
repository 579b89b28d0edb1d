// Package bitmap wraps Roaring bitmaps as row sets.
//
// Dimensions keep one Bitmap per distinct key and filters are combined with
// And/Or/AndNot. Scratch bitmaps used while diffing filter states come from a
// sync.Pool via Get/Put.
package bitmap
