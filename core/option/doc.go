/*
Package option implements optional values.

Glyph definitions of SVG fonts leave many attributes unspecified, to be
inherited from the enclosing font. Such attributes are modelled as optional
values, which are None until set.

    adv := option.Float32()
    w := adv.OrElse(fontDefault)

*/
package option
