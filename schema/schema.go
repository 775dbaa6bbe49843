// Package schema has the models, constants and output rows shared by all parts of mades.
package schema
