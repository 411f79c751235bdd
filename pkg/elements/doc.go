// Package elements builds element registries from template files.
//
// Each file named <tag-name>.html defines the custom element tag-name. Files
// are text/template templates executed with the element's *expand.State as
// data:
//
//	<article class="card">
//	  <h2>{{ default "Untitled" .Attrs.title }}</h2>
//	  {{ markdown .Attrs.summary }}
//	  <x-tags items="{{ value .Attrs.tags }}"></x-tags>
//	  <slot></slot>
//	</article>
//
// Templates are loaded from any fs.FS with Load, or from an S3 bucket with
// LoadS3.
package elements
