package main

// viewHTML takes the title as a JSON string, the config and the moves.
const viewHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
    <style type="text/css">
      canvas { border: 1px solid black; }
    </style>
    <script src="https://unpkg.com/zdog@1/dist/zdog.dist.js"></script>
  </head>
  <body>
    <canvas class="ncpost-view" width="600" height="600"></canvas>
    <script type="text/javascript">
document.title = %s

const config = {
%s}

const cmds = [
%s]
    </script>
    <script type="text/javascript">
const displaySize = 600
const view = document.querySelector(".ncpost-view")

const illo = new Zdog.Illustration({
  element: view,
  scale: {x: 1.0, y: -1.0, z: 1.0},
  rotate: {x: 1.1, y: 0, z: -0.3},
  zoom: config.zoom,
})

view.onwheel = function(event) {
  illo.zoom *= event.deltaY < 0 ? 1.1 : 0.9
  animate()
}

let dragStartRX, dragStartRZ
let isDragging = false

new Zdog.Dragger({
  startElement: view,
  onDragStart: function() {
    dragStartRX = illo.rotate.x
    dragStartRZ = illo.rotate.z
    isDragging = true
    animate()
  },
  onDragMove: function(pointer, moveX, moveY) {
    illo.rotate.x = dragStartRX - (moveY / displaySize * Zdog.TAU)
    illo.rotate.z = dragStartRZ - (moveX / displaySize * Zdog.TAU)
  },
  onDragEnd: function() {
    isDragging = false
  },
})

const lo = config.minPos
const hi = config.maxPos
const stroke = 2 / config.zoom

const workspace = new Zdog.Anchor({
  addTo: illo,
  translate: {x: -(lo.x + hi.x) / 2, y: -(lo.y + hi.y) / 2, z: -(lo.z + hi.z) / 2},
})

// bounding box of the moves
new Zdog.Shape({
  addTo: workspace,
  stroke: stroke / 2,
  color: 'grey',
  path: [
    {x: lo.x, y: lo.y, z: hi.z},
    {x: hi.x, y: lo.y, z: hi.z},
    {x: hi.x, y: hi.y, z: hi.z},
    {x: lo.x, y: hi.y, z: hi.z},
    {x: lo.x, y: lo.y, z: hi.z},

    {move: {x: lo.x, y: lo.y, z: lo.z}},
    {x: hi.x, y: lo.y, z: lo.z},
    {x: hi.x, y: hi.y, z: lo.z},
    {x: lo.x, y: hi.y, z: lo.z},
    {x: lo.x, y: lo.y, z: lo.z},

    {move: {x: lo.x, y: lo.y, z: hi.z}},
    {x: lo.x, y: lo.y, z: lo.z},
    {move: {x: hi.x, y: lo.y, z: hi.z}},
    {x: hi.x, y: lo.y, z: lo.z},
    {move: {x: hi.x, y: hi.y, z: hi.z}},
    {x: hi.x, y: hi.y, z: lo.z},
    {move: {x: lo.x, y: hi.y, z: hi.z}},
    {x: lo.x, y: hi.y, z: lo.z},
  ],
})

const axis = 20 / config.zoom
for (const [color, end] of [
  ['red', {x: axis, y: 0, z: 0}],
  ['green', {x: 0, y: axis, z: 0}],
  ['blue', {x: 0, y: 0, z: axis}],
]) {
  new Zdog.Shape({addTo: workspace, stroke: stroke * 2, color: color,
    path: [{x: 0, y: 0, z: 0}, end]})
}

let curPt = {x: 0, y: 0, z: 0}

function moveTo(pt, color) {
  new Zdog.Shape({addTo: workspace, stroke: stroke, color: color, path: [curPt, pt]})
  curPt = pt
}

for (const cmd of cmds) {
  if (cmd.rapidTo !== undefined) {
    moveTo(cmd.rapidTo, 'red')
  } else if (cmd.linearTo !== undefined) {
    moveTo(cmd.linearTo, 'green')
  }
}

function animate() {
  illo.updateRenderGraph()
  if (isDragging) {
    requestAnimationFrame(animate)
  }
}
animate()
    </script>
  </body>
</html>
`
