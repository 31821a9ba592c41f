// Package normalize reshapes heterogeneous price spreadsheets into the
// common three-column schema [Date, Product, Value] the analysis stages
// consume.
//
// Three layouts are recognized:
//
//   - two-column files (Date, Value), where the product is the file name;
//   - wide files with a Product column and one "KW w/yyyy" column per
//     calendar week, melted into rows;
//   - wide files with a Date column and one column per product, melted
//     into rows.
//
// Dates may use Portuguese month abbreviations and values may use decimal
// commas; both are handled here so the rest of the pipeline only sees
// time.Time and float64.
package normalize
